package domain

import "errors"

// ErrSessionNotFound is returned when a screen session id is unknown.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownScreen is returned when no screen kind is registered under a name.
var ErrUnknownScreen = errors.New("unknown screen")

// ErrUnknownIntent is returned when a screen does not accept an intent name.
var ErrUnknownIntent = errors.New("unknown intent")

// ErrInvalidIntent is returned when an intent payload cannot be decoded.
var ErrInvalidIntent = errors.New("invalid intent payload")

// ErrInvalidCredentials is returned by authenticators that reject a login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrProductNotFound is returned when a catalog has no product with the given id.
var ErrProductNotFound = errors.New("product not found")
