package validation

import "testing"

func TestIsEmail(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "foo@bar.com", want: true},
		{value: "first.last@sub.example.org", want: true},
		{value: "foo@bar", want: false},
		{value: "foo.bar", want: false},
		{value: "", want: false},
		{value: "foo @bar.com", want: false},
		{value: "foo@@bar.com", want: false},
		{value: "@bar.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := IsEmail(tt.value); got != tt.want {
				t.Errorf("IsEmail(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	v := Email()
	if msg := v("foo@bar"); msg != InvalidEmailMessage {
		t.Errorf("Email()(foo@bar) = %q, want %q", msg, InvalidEmailMessage)
	}
	if msg := v("foo@bar.com"); msg != "" {
		t.Errorf("Email()(foo@bar.com) = %q, want empty", msg)
	}
}

func TestRequired(t *testing.T) {
	tests := []struct {
		name   string
		maxLen int
		value  string
		errMsg string
	}{
		{name: "valid input", maxLen: 10, value: "valid"},
		{name: "empty string", maxLen: 10, value: "", errMsg: "Username is required."},
		{name: "whitespace only", maxLen: 10, value: "   ", errMsg: "Username is required."},
		{name: "exceeds max length", maxLen: 5, value: "toolong", errMsg: "Username cannot exceed 5 characters."},
		{name: "unicode within limit", maxLen: 5, value: "héllo"},
		{name: "no limit", maxLen: 0, value: "a very long username indeed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Required("Username", tt.maxLen)(tt.value); got != tt.errMsg {
				t.Errorf("Required() = %q, want %q", got, tt.errMsg)
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	v := OneOf("Content type", []string{"image/jpeg", "image/png"})
	if got := v("IMAGE/PNG"); got != "" {
		t.Errorf("OneOf(IMAGE/PNG) = %q, want empty", got)
	}
	if got := v("image/gif"); got != "Content type must be one of: image/jpeg, image/png" {
		t.Errorf("OneOf(image/gif) = %q", got)
	}
}

func TestFieldValidator(t *testing.T) {
	fv := New().
		Validate("username", "", Required("Username", 0)).
		Validate("email", "foo.bar", Required("Email", 0), Email()).
		Validate("password", "secret", Required("Password", 0))

	field, msg, ok := fv.First()
	if !ok || field != "username" || msg != "Username is required." {
		t.Errorf("First() = %q, %q, %v", field, msg, ok)
	}

	if _, _, ok := New().First(); ok {
		t.Error("First() on empty validator should report false")
	}
}
