package interfaces

import (
	"context"

	domaintypes "appstate/internal/domain/types"
)

// SessionService owns the authenticated session.
type SessionService interface {
	Login(ctx context.Context, session domaintypes.Session) error
	Logout(ctx context.Context) error
	Current() (domaintypes.Session, bool)
	Require() (domaintypes.Session, error)
}

// PreferenceService updates the theme and locale settings.
type PreferenceService interface {
	UpdateMode(ctx context.Context, mode domaintypes.ColorMode) (bool, error)
	ToggleDarkMode(ctx context.Context) (bool, error)
	UpdateLanguage(ctx context.Context, lang domaintypes.Language) (bool, error)
	Mode() domaintypes.ColorMode
	Language() domaintypes.Language
}

// Navigator is the routing collaborator driven by the session gate.
type Navigator interface {
	Location() domaintypes.Route
	Replace(route domaintypes.Route)
}
