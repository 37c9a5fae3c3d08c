package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"appstate/internal/crypto"
	"appstate/internal/domain"
)

type sessionView struct {
	SignedIn bool         `json:"signed_in" yaml:"signed_in"`
	User     *domain.User `json:"user,omitempty" yaml:"user,omitempty"`
	Token    string       `json:"token_fingerprint,omitempty" yaml:"token_fingerprint,omitempty"`
	Since    int64        `json:"since,omitempty" yaml:"since,omitempty"`
}

func viewOf(sess domain.Session, ok bool) sessionView {
	if !ok {
		return sessionView{}
	}
	return sessionView{
		SignedIn: true,
		User:     sess.User,
		Token:    crypto.Fingerprint(sess.Token),
		Since:    sess.CreatedUTC,
	}
}

func (v sessionView) text(w io.Writer) error {
	switch {
	case !v.SignedIn:
		_, err := fmt.Fprintln(w, "Signed out.")
		return err
	case v.User == nil:
		_, err := fmt.Fprintf(w, "Signed in. Token %s\n", v.Token)
		return err
	default:
		_, err := fmt.Fprintf(w, "Signed in as %s (%s). Token %s\n", v.User.Email, v.User.ID, v.Token)
		return err
	}
}

func loginCmd() *cobra.Command {
	var token, email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a token or with credentials against the auth backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				sess domain.Session
				err  error
			)
			switch {
			case token != "":
				sess = domain.Session{Token: token}
				if email != "" {
					sess.User = &domain.User{ID: domain.UserID(email), Email: email}
				}
				err = wire.Sessions.Login(ctx, sess)
				if err == nil {
					sess, _ = wire.Sessions.Current()
				}
			case email != "" && password != "":
				if wire.API == nil {
					return fmt.Errorf("no auth backend configured. use --api")
				}
				sess, err = wire.Sessions.SignIn(ctx, email, password)
			default:
				return errors.New("either --token or --email and --password are required")
			}
			if err != nil {
				return err
			}
			view := viewOf(sess, true)
			return render(cmd.OutOrStdout(), view, view.text)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "store this bearer token directly")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			view := viewOf(wire.Sessions.Current())
			return render(cmd.OutOrStdout(), view, view.text)
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user, revalidating the token when a backend is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := wire.Sessions.Refresh(cmd.Context())
			if errors.Is(err, domain.ErrUnauthorized) {
				return fmt.Errorf("session expired, signed out: %w", err)
			}
			if err != nil {
				return err
			}
			view := viewOf(sess, true)
			return render(cmd.OutOrStdout(), view, view.text)
		},
	}
}
