package ports

import (
	"context"
	"io"

	"github.com/target/dashboard-client/internal/domain/session"
)

// Credentials carries the login form values.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration carries the signup form values.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the backend answer to a successful login.
// UserID is empty when the backend does not return one.
type LoginResult struct {
	Message string
	UserID  string
}

// AvatarUpload is a profile image submitted for a user.
// Size is the content length in bytes, or 0 when unknown.
type AvatarUpload struct {
	UserID      string
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadResult is the backend answer to a successful avatar upload.
type UploadResult struct {
	Message   string
	ImagePath string
}

// AuthBackend is the REST backend reached over HTTP.
// Failures are returned as *errors.AppError with a server or network code.
type AuthBackend interface {
	Login(ctx context.Context, in Credentials) (LoginResult, error)
	Signup(ctx context.Context, in Registration) (string, error)
	GetProfile(ctx context.Context, userID string) (session.Profile, error)
	UploadProfile(ctx context.Context, in AvatarUpload) (UploadResult, error)
	Signout(ctx context.Context) (string, error)
}
