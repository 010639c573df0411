package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/asgeY/poet/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator implements ports.Authenticator with a Redis hash of
// username → bcrypt hash of the password.
type Authenticator struct {
	client *backend.Client
	prefix string
	cost   int
}

// NewAuthenticator creates an authenticator on an existing client.
func NewAuthenticator(client *backend.Client, opts ...Option) *Authenticator {
	o := applyOptions(opts)
	return &Authenticator{client: client, prefix: o.prefix, cost: o.cost}
}

func (a *Authenticator) usersKey() string {
	return a.prefix + "users"
}

// SetUser stores (or replaces) a user's password hash.
func (a *Authenticator) SetUser(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %q: %w", username, err)
	}
	if err := a.client.HSet(ctx, a.usersKey(), username, hash).Err(); err != nil {
		return fmt.Errorf("failed to store user %q: %w", username, err)
	}
	return nil
}

// DeleteUser removes a user.
func (a *Authenticator) DeleteUser(ctx context.Context, username string) error {
	return a.client.HDel(ctx, a.usersKey(), username).Err()
}

// Authenticate looks the user up and checks the password against its hash.
func (a *Authenticator) Authenticate(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	want, err := a.client.HGet(ctx, a.usersKey(), creds.Username).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.AuthResult{}, fmt.Errorf("user %q: %w", creds.Username, domain.ErrInvalidCredentials)
		}
		return domain.AuthResult{}, fmt.Errorf("failed to get user from redis: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(want), []byte(creds.Password))
	switch {
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return domain.AuthResult{}, fmt.Errorf("user %q: %w", creds.Username, domain.ErrInvalidCredentials)
	case err != nil:
		return domain.AuthResult{}, fmt.Errorf("failed to check password for %q: %w", creds.Username, err)
	}
	return domain.AuthResult{Authenticated: true, User: creds.Username}, nil
}
