package testutil

import (
	"bytes"

	"github.com/target/dashboard-client/internal/ports"
)

// RegistrationBuilder provides a fluent interface for building signup forms for testing.
type RegistrationBuilder struct {
	reg ports.Registration
}

// NewRegistration creates a RegistrationBuilder with a valid form.
func NewRegistration() *RegistrationBuilder {
	return &RegistrationBuilder{
		reg: ports.Registration{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "s3cret",
		},
	}
}

// WithUsername sets the username.
func (b *RegistrationBuilder) WithUsername(username string) *RegistrationBuilder {
	b.reg.Username = username
	return b
}

// WithEmail sets the email.
func (b *RegistrationBuilder) WithEmail(email string) *RegistrationBuilder {
	b.reg.Email = email
	return b
}

// WithPassword sets the password.
func (b *RegistrationBuilder) WithPassword(password string) *RegistrationBuilder {
	b.reg.Password = password
	return b
}

// Build returns the constructed Registration.
func (b *RegistrationBuilder) Build() ports.Registration {
	return b.reg
}

// Credentials returns the login form matching the registration.
func (b *RegistrationBuilder) Credentials() ports.Credentials {
	return ports.Credentials{Username: b.reg.Username, Password: b.reg.Password}
}

// PNGUpload returns an avatar upload carrying a tiny PNG header.
func PNGUpload(userID, fileName string) ports.AvatarUpload {
	content := []byte("\x89PNG\r\n\x1a\n")
	return ports.AvatarUpload{
		UserID:      userID,
		FileName:    fileName,
		ContentType: "image/png",
		Size:        int64(len(content)),
		Content:     bytes.NewReader(content),
	}
}
