// internal/app/system/identity/firebase.go
package identity

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// DefaultCredentialsFile is where the service-account key lands when no
// path is configured.
const DefaultCredentialsFile = "./serviceAccountKey.json"

// Firebase is the production Admin backed by the Firebase Auth admin SDK.
type Firebase struct {
	client *auth.Client
}

// NewFirebase initializes the admin SDK from a service-account
// credentials file. An empty path falls back to DefaultCredentialsFile; a
// missing file fails the whole startup since nothing downstream can work
// without it.
func NewFirebase(ctx context.Context, credentialsFile string) (*Firebase, error) {
	if credentialsFile == "" {
		credentialsFile = DefaultCredentialsFile
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("identity credentials file %s: %w", credentialsFile, err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init identity app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init identity auth client: %w", err)
	}
	return &Firebase{client: client}, nil
}

func (f *Firebase) CreateUser(ctx context.Context, nu NewUser) (User, error) {
	params := (&auth.UserToCreate{}).
		Email(nu.Email).
		DisplayName(nu.Name)
	if nu.Password != "" {
		params = params.Password(nu.Password)
	}
	rec, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return fromRecord(rec), nil
}

func (f *Firebase) GetUserByEmail(ctx context.Context, email string) (User, error) {
	rec, err := f.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("look up user by email: %w", err)
	}
	return fromRecord(rec), nil
}

func (f *Firebase) DeleteUser(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (f *Firebase) VerifyToken(ctx context.Context, token string) (Claims, error) {
	tok, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Claims{}, fmt.Errorf("verify token: %w", err)
	}
	claims := Claims{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		claims.Email = email
	}
	return claims, nil
}

func fromRecord(rec *auth.UserRecord) User {
	return User{
		UID:   rec.UID,
		Email: rec.Email,
		Name:  rec.DisplayName,
	}
}
