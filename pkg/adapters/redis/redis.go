package redis

import (
	backend "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "poet:"

// Option configures the Redis adapters.
type Option func(*options)

type options struct {
	prefix string
	cost   int
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithCost sets the bcrypt cost used when storing passwords.
func WithCost(cost int) Option {
	return func(o *options) {
		o.cost = cost
	}
}

func applyOptions(opts []Option) options {
	o := options{prefix: DefaultPrefix, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient creates a client for the given address.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}
