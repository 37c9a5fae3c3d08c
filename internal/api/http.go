package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"appstate/internal/domain"
)

// HTTP is a JSON client for the auth backend.
type HTTP struct {
	Base string
	HTTP *http.Client

	onUnauthorized func(ctx context.Context)
}

// NewHTTP returns a client for base. A nil client uses http.DefaultClient.
func NewHTTP(base string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: client}
}

// OnUnauthorized registers fn to run when the backend rejects a bearer
// token with 401. It is the expired-session signal.
func (c *HTTP) OnUnauthorized(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// SignIn exchanges credentials for a session.
func (c *HTTP) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	var out signInResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", credentials{Email: email, Password: password}, &out); err != nil {
		return domain.Session{}, err
	}
	user := out.User
	return domain.Session{Token: out.Token, User: &user}, nil
}

// Me returns the profile for token.
func (c *HTTP) Me(ctx context.Context, token string) (domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

func (c *HTTP) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	u := c.Base + path
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if token != "" && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return fmt.Errorf("api %s %s: %w", method, u, domain.ErrUnauthorized)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("api %s %s: %s", method, u, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Compile-time assertion that HTTP implements domain.AuthClient.
var _ domain.AuthClient = (*HTTP)(nil)
