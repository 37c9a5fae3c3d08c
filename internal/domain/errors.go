package domain

import "errors"

var (
	// ErrAuthenticationRequired is returned when a session is required but
	// none is present. It signals a misconfigured route guard.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrUnauthorized is returned when the auth backend rejects the token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnknownSetting is returned for a setting name with no store.
	ErrUnknownSetting = errors.New("unknown setting")
)
