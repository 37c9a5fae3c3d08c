package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"appstate/internal/crypto"
	"appstate/internal/domain"
	"appstate/internal/notice"
	"appstate/internal/state"
)

// Service owns the authenticated session held in the secure store.
//
// The session moves between two states only:
//   - Unauthenticated: the store is absent.
//   - Authenticated: the store holds a Session.
//
// Transitions happen through Login, Logout, or Expire (an auth-error signal
// such as an HTTP 401), each a single store write.
type Service struct {
	store   state.Setting[domain.Session]
	auth    domain.AuthClient
	notices notice.Publisher
	log     *zap.Logger
}

// New constructs a session Service. auth may be nil when sign-in against a
// backend is not configured.
func New(
	store state.Setting[domain.Session],
	auth domain.AuthClient,
	notices notice.Publisher,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, auth: auth, notices: notices, log: log}
}

// Login persists sess as the current session.
func (s *Service) Login(ctx context.Context, sess domain.Session) error {
	_, err := s.login(ctx, sess)
	return err
}

func (s *Service) login(ctx context.Context, sess domain.Session) (domain.Session, error) {
	if sess.CreatedUTC == 0 {
		sess.CreatedUTC = time.Now().Unix()
	}
	if err := s.store.Set(ctx, sess); err != nil {
		if !errors.Is(err, state.ErrInvalidValue) {
			s.notices.Publish(notice.LevelError, "error writing to secure store", err)
		}
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	s.log.Info("signed in", zap.String("token", crypto.Fingerprint(sess.Token)))
	return sess, nil
}

// SignIn exchanges credentials with the auth backend and logs the result in.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	if s.auth == nil {
		return domain.Session{}, fmt.Errorf("sign in: no auth backend configured")
	}
	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.notices.Publish(notice.LevelError, "sign in failed", err)
		return domain.Session{}, fmt.Errorf("sign in: %w", err)
	}
	return s.login(ctx, sess)
}

// Logout clears the session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Remove(ctx); err != nil {
		s.notices.Publish(notice.LevelError, "error deleting from secure store", err)
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info("signed out")
	return nil
}

// Expire handles an expired-session signal from the network layer.
func (s *Service) Expire(ctx context.Context) error {
	if _, ok := s.store.Snapshot(); !ok {
		return nil
	}
	s.log.Warn("session expired; signing out")
	if err := s.Logout(ctx); err != nil {
		return err
	}
	s.notices.Publish(notice.LevelInfo, "your session has expired, please sign in again", nil)
	return nil
}

// Current returns the session, if any.
func (s *Service) Current() (domain.Session, bool) {
	return s.store.Snapshot()
}

// Require returns the session or ErrAuthenticationRequired. It is meant for
// code behind the session gate; a failure indicates a misconfigured route.
func (s *Service) Require() (domain.Session, error) {
	sess, ok := s.store.Snapshot()
	if !ok {
		return domain.Session{}, domain.ErrAuthenticationRequired
	}
	return sess, nil
}

// Refresh validates the stored token against the auth backend and updates
// the cached user profile. A rejected token expires the session.
func (s *Service) Refresh(ctx context.Context) (domain.Session, error) {
	sess, err := s.Require()
	if err != nil {
		return domain.Session{}, err
	}
	if s.auth == nil {
		return sess, nil
	}
	user, err := s.auth.Me(ctx, sess.Token)
	if errors.Is(err, domain.ErrUnauthorized) {
		if xerr := s.Expire(ctx); xerr != nil {
			return domain.Session{}, xerr
		}
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("refresh: %w", err)
	}
	sess.User = &user
	return s.login(ctx, sess)
}

// Snapshot makes Service a binding source for the session.
func (s *Service) Snapshot() (domain.Session, bool) { return s.store.Snapshot() }

// Subscribe registers fn for session changes.
func (s *Service) Subscribe(fn func()) func() { return s.store.Subscribe(fn) }

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
