package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"appstate/internal/api"
	"appstate/internal/domain"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Password != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]string{"id": "1", "email": in.Email},
		})
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			http.Error(w, "expired", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.User{ID: "1", Email: "a@b.co"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTP_SignInAndMe(t *testing.T) {
	srv := newServer(t)
	c := api.NewHTTP(srv.URL+"/", srv.Client())
	ctx := context.Background()

	sess, err := c.SignIn(ctx, "a@b.co", "secret")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if sess.Token != "tok-1" || sess.User == nil || sess.User.Email != "a@b.co" {
		t.Fatalf("session = %+v", sess)
	}

	user, err := c.Me(ctx, sess.Token)
	if err != nil || user.ID != "1" {
		t.Fatalf("me = (%+v, %v)", user, err)
	}
}

func TestHTTP_BadCredentials_DoNotExpire(t *testing.T) {
	srv := newServer(t)
	c := api.NewHTTP(srv.URL, srv.Client())
	fired := false
	c.OnUnauthorized(func(context.Context) { fired = true })

	_, err := c.SignIn(context.Background(), "a@b.co", "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if fired {
		t.Fatal("credential failure must not fire the expiry hook")
	}
}

func TestHTTP_ExpiredToken_FiresHook(t *testing.T) {
	srv := newServer(t)
	c := api.NewHTTP(srv.URL, srv.Client())
	fired := 0
	c.OnUnauthorized(func(context.Context) { fired++ })

	_, err := c.Me(context.Background(), "stale")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if fired != 1 {
		t.Fatalf("hook fired %d times, want 1", fired)
	}
}
