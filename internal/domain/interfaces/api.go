package interfaces

import (
	"context"

	domaintypes "appstate/internal/domain/types"
)

// AuthClient talks to the auth backend, all with context.
type AuthClient interface {
	SignIn(ctx context.Context, email, password string) (domaintypes.Session, error)
	Me(ctx context.Context, token string) (domaintypes.User, error)
}
