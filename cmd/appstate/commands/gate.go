package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"appstate/internal/domain"
)

type gateView struct {
	Location domain.Route `json:"location" yaml:"location"`
	SignedIn bool         `json:"signed_in" yaml:"signed_in"`
	Redirect domain.Route `json:"redirect,omitempty" yaml:"redirect,omitempty"`
}

func (v gateView) text(w io.Writer) error {
	if v.Redirect == "" {
		_, err := fmt.Fprintf(w, "%s: allowed\n", v.Location)
		return err
	}
	_, err := fmt.Fprintf(w, "%s: redirect to %s\n", v.Location, v.Redirect)
	return err
}

func gateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gate <path>",
		Short: "Show where the session gate sends a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := domain.Route(args[0])
			_, signedIn := wire.Sessions.Current()
			view := gateView{Location: loc, SignedIn: signedIn}
			if to, ok := wire.Gate.Evaluate(loc); ok {
				view.Redirect = to
			}
			return render(cmd.OutOrStdout(), view, view.text)
		},
	}
}
