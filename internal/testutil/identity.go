// internal/testutil/identity.go
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sevakendra/regdesk/internal/app/system/identity"
)

// FakeIdentity is an in-memory identity.Admin for handler tests.
type FakeIdentity struct {
	mu    sync.Mutex
	users map[string]identity.User // keyed by lowercased email
	next  int

	// FailCreate injects an error for CreateUser on matching emails.
	FailCreate map[string]error
	// Tokens maps accepted bearer tokens to their claims.
	Tokens map[string]identity.Claims
}

func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{
		users:      make(map[string]identity.User),
		FailCreate: make(map[string]error),
		Tokens:     make(map[string]identity.Claims),
	}
}

// Users returns a snapshot of all accounts.
func (f *FakeIdentity) Users() []identity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]identity.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out
}

func (f *FakeIdentity) CreateUser(_ context.Context, nu identity.NewUser) (identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(nu.Email)
	if err := f.FailCreate[key]; err != nil {
		return identity.User{}, err
	}
	if _, exists := f.users[key]; exists {
		return identity.User{}, identity.ErrEmailExists
	}
	f.next++
	u := identity.User{
		UID:   fmt.Sprintf("uid-%04d", f.next),
		Email: nu.Email,
		Name:  nu.Name,
	}
	f.users[key] = u
	return u, nil
}

func (f *FakeIdentity) GetUserByEmail(_ context.Context, email string) (identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return identity.User{}, identity.ErrUserNotFound
	}
	return u, nil
}

func (f *FakeIdentity) DeleteUser(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, u := range f.users {
		if u.UID == uid {
			delete(f.users, key)
			return nil
		}
	}
	return identity.ErrUserNotFound
}

func (f *FakeIdentity) VerifyToken(_ context.Context, token string) (identity.Claims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	claims, ok := f.Tokens[token]
	if !ok {
		return identity.Claims{}, fmt.Errorf("token not recognized")
	}
	return claims, nil
}
