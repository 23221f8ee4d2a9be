// Package mocks provides mock implementations for testing the GUIDED web client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	backend := mocks.NewMockBackend(ctrl)
//	backend.EXPECT().Me(gomock.Any(), "tok").Return(identity, nil)
package mocks

// Generate mock for the Backend interface from internal/ports.
// This creates MockBackend with methods for every remote API call.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/guided/guided-web/internal/ports Backend
