// Package mocks provides mock implementations for testing the dashboard client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// Hand-written doubles for simple cases live in internal/mocks/session.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	backend := mocks.NewMockAuthBackend(ctrl)
//	backend.EXPECT().Login(gomock.Any(), gomock.Any()).Return(ports.LoginResult{Message: "ok"}, nil)
package mocks

// Generate mock for AuthBackend interface from internal/ports package.
// This creates MockAuthBackend with methods for all AuthBackend interface methods:
// Login, Signup, GetProfile, UploadProfile, Signout
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_backend_mock.go github.com/target/dashboard-client/internal/ports AuthBackend

// Generate mock for Router interface from internal/ports package.
// This creates MockRouter with methods for all Router interface methods:
// Navigate
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=router_mock.go github.com/target/dashboard-client/internal/ports Router
