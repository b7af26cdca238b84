// internal/app/system/identity/identity.go
//
// Admin access to the external identity provider. The interface keeps
// handlers testable; the Firebase implementation is the only one used in
// production.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrUserNotFound reports that no account exists for the lookup key.
	ErrUserNotFound = errors.New("identity: user not found")
	// ErrEmailExists reports a create against an already-registered email.
	ErrEmailExists = errors.New("identity: email already registered")
)

// User is the provider-side view of an account.
type User struct {
	UID   string
	Email string
	Name  string
}

// NewUser carries the fields for account creation.
type NewUser struct {
	Email    string
	Name     string
	Password string
}

// Claims are the verified assertions of a bearer token.
type Claims struct {
	UID   string
	Email string
}

// Admin is the provider admin surface the account endpoints depend on.
type Admin interface {
	CreateUser(ctx context.Context, nu NewUser) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	DeleteUser(ctx context.Context, uid string) error
	VerifyToken(ctx context.Context, token string) (Claims, error)
}
