package domain

// Credentials is what a login screen submits.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is what an authenticator answers on success.
type AuthResult struct {
	Authenticated bool   `json:"authenticated"`
	User          string `json:"user,omitempty"`
}
