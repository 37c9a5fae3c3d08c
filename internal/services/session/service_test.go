package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"appstate/internal/domain"
	"appstate/internal/notice"
	"appstate/internal/services/session"
	"appstate/internal/state"
	"appstate/internal/store"
)

type brokenBackend struct {
	*store.MemoryBackend
	err error
}

func (b *brokenBackend) SetItem(context.Context, string, string) error { return b.err }
func (b *brokenBackend) RemoveItem(context.Context, string) error      { return b.err }

type fakeAuth struct {
	session domain.Session
	user    domain.User
	err     error
}

func (f *fakeAuth) SignIn(context.Context, string, string) (domain.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) Me(context.Context, string) (domain.User, error) {
	return f.user, f.err
}

func newService(t *testing.T, auth domain.AuthClient) (*session.Service, *state.Store[domain.Session], *notice.Center) {
	t.Helper()
	return newServiceWith(t, store.NewMemoryBackend(), auth)
}

func newServiceWith(t *testing.T, b domain.Backend, auth domain.AuthClient) (*session.Service, *state.Store[domain.Session], *notice.Center) {
	t.Helper()
	log := zaptest.NewLogger(t)
	st := state.New(domain.KeySession, b, state.Struct[domain.Session](), state.WithLogger(log))
	if err := st.Wait(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	nc := notice.NewCenter(log)
	return session.New(st, auth, nc, log), st, nc
}

func TestService_LoginLogout(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newService(t, nil)

	if _, err := svc.Require(); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("Require() err = %v, want ErrAuthenticationRequired", err)
	}

	before := time.Now().Unix()
	if err := svc.Login(ctx, domain.Session{Token: "x"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := svc.Require()
	if err != nil || sess.Token != "x" {
		t.Fatalf("Require() = (%+v, %v)", sess, err)
	}
	if sess.CreatedUTC < before {
		t.Fatalf("CreatedUTC = %d, want >= %d", sess.CreatedUTC, before)
	}
	if stored, ok, _ := st.Get(ctx); !ok || stored.Token != "x" {
		t.Fatalf("store = (%+v, %v)", stored, ok)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := svc.Current(); ok {
		t.Fatal("session still present after logout")
	}
}

func TestService_WriteFailure_PublishesNotice(t *testing.T) {
	errLocked := errors.New("keychain locked")
	svc, _, nc := newServiceWith(t, &brokenBackend{MemoryBackend: store.NewMemoryBackend(), err: errLocked}, nil)
	ch, cancel := nc.Subscribe()
	defer cancel()

	err := svc.Login(context.Background(), domain.Session{Token: "x"})
	if !errors.Is(err, errLocked) {
		t.Fatalf("login err = %v, want %v", err, errLocked)
	}
	n := <-ch
	if n.Level != notice.LevelError || n.Message != "error writing to secure store" {
		t.Fatalf("notice = %+v", n)
	}
	if _, ok := svc.Current(); ok {
		t.Fatal("failed login must not change the session")
	}
}

func TestService_InvalidSession_NoNotice(t *testing.T) {
	svc, _, nc := newService(t, nil)
	ch, cancel := nc.Subscribe()
	defer cancel()

	err := svc.Login(context.Background(), domain.Session{})
	if !errors.Is(err, state.ErrInvalidValue) {
		t.Fatalf("login err = %v, want ErrInvalidValue", err)
	}
	select {
	case n := <-ch:
		t.Fatalf("invalid session published %+v", n)
	default:
	}
	if _, ok := svc.Current(); ok {
		t.Fatal("invalid login must not change the session")
	}
}

func TestService_SignIn(t *testing.T) {
	auth := &fakeAuth{session: domain.Session{Token: "tok", User: &domain.User{ID: "1", Email: "a@b.co"}}}
	svc, _, _ := newService(t, auth)

	sess, err := svc.SignIn(context.Background(), "a@b.co", "pw")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if cur, ok := svc.Current(); !ok || cur.Token != "tok" || cur != sess {
		t.Fatalf("current = (%+v, %v), want %+v", cur, ok, sess)
	}
}

func TestService_SignIn_NoBackend(t *testing.T) {
	svc, _, _ := newService(t, nil)
	if _, err := svc.SignIn(context.Background(), "a@b.co", "pw"); err == nil {
		t.Fatal("expected error without auth backend")
	}
}

func TestService_Refresh_UnauthorizedExpires(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{err: domain.ErrUnauthorized}
	svc, _, nc := newService(t, auth)
	ch, cancel := nc.Subscribe()
	defer cancel()

	if err := svc.Login(ctx, domain.Session{Token: "stale"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Refresh(ctx); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("refresh err = %v, want ErrUnauthorized", err)
	}
	if _, ok := svc.Current(); ok {
		t.Fatal("expired session should be cleared")
	}
	if n := <-ch; n.Level != notice.LevelInfo {
		t.Fatalf("notice = %+v, want expiry info", n)
	}
}

func TestService_Refresh_UpdatesUser(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{user: domain.User{ID: "7", Email: "x@y.io", Name: "X"}}
	svc, _, _ := newService(t, auth)
	if err := svc.Login(ctx, domain.Session{Token: "ok"}); err != nil {
		t.Fatal(err)
	}

	sess, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sess.User == nil || sess.User.ID != "7" {
		t.Fatalf("user = %+v", sess.User)
	}
}

func TestService_Expire_WithoutSessionIsNoop(t *testing.T) {
	svc, _, _ := newService(t, nil)
	if err := svc.Expire(context.Background()); err != nil {
		t.Fatalf("expire: %v", err)
	}
}
