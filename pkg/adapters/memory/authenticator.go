package memory

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/asgeY/poet/pkg/domain"
)

// Authenticator implements ports.Authenticator against an in-memory user table.
// Safe for concurrent use.
type Authenticator struct {
	mu    sync.RWMutex
	users map[string]string
}

// NewAuthenticator creates an authenticator seeded with username → password pairs.
func NewAuthenticator(users map[string]string) *Authenticator {
	a := &Authenticator{users: make(map[string]string, len(users))}
	for name, pass := range users {
		a.users[name] = pass
	}
	return a
}

// SetUser adds or replaces a user.
func (a *Authenticator) SetUser(username, password string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[username] = password
}

// Authenticate checks creds against the table.
func (a *Authenticator) Authenticate(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.AuthResult{}, err
	}

	a.mu.RLock()
	want, ok := a.users[creds.Username]
	a.mu.RUnlock()

	if !ok || subtle.ConstantTimeCompare([]byte(want), []byte(creds.Password)) != 1 {
		return domain.AuthResult{}, fmt.Errorf("user %q: %w", creds.Username, domain.ErrInvalidCredentials)
	}
	return domain.AuthResult{Authenticated: true, User: creds.Username}, nil
}
