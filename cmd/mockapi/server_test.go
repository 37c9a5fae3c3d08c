package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"appstate/internal/api"
	"appstate/internal/domain"
)

func newTestServer(t *testing.T) (*httptest.Server, *api.HTTP) {
	t.Helper()
	srv := httptest.NewServer(newServer(zaptest.NewLogger(t)).routes())
	t.Cleanup(srv.Close)
	return srv, api.NewHTTP(srv.URL, srv.Client())
}

func TestMockAPI_SignInAndMe(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	sess, err := client.SignIn(ctx, "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if sess.Token == "" || sess.User == nil || sess.User.Name != "ada" {
		t.Fatalf("session = %+v", sess)
	}

	again, err := client.SignIn(ctx, "ada@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if again.User.ID != sess.User.ID {
		t.Fatalf("user id not stable: %q vs %q", again.User.ID, sess.User.ID)
	}
	if again.Token == sess.Token {
		t.Fatal("token reused")
	}

	me, err := client.Me(ctx, sess.Token)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Email != "ada@example.com" {
		t.Fatalf("me = %+v", me)
	}
}

func TestMockAPI_RejectsBadCredentials(t *testing.T) {
	_, client := newTestServer(t)
	for _, c := range []struct{ email, pw string }{
		{"ada@example.com", ""},
		{"not-an-email", "pw"},
	} {
		if _, err := client.SignIn(context.Background(), c.email, c.pw); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("SignIn(%q, %q) err = %v, want ErrUnauthorized", c.email, c.pw, err)
		}
	}
}

func TestMockAPI_ExpireRevokesTokens(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := context.Background()

	fired := 0
	client.OnUnauthorized(func(context.Context) { fired++ })

	sess, err := client.SignIn(ctx, "ada@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}

	resp, err := srv.Client().Post(srv.URL+"/auth/expire", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expire status = %d", resp.StatusCode)
	}

	if _, err := client.Me(ctx, sess.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("me err = %v, want ErrUnauthorized", err)
	}
	if fired != 1 {
		t.Fatalf("unauthorized hook fired %d times, want 1", fired)
	}
}

func TestMockAPI_MeWithoutToken(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := srv.Client().Get(srv.URL + "/me")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
