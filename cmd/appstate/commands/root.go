package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"appstate/internal/app"
)

const hydrateTimeout = 10 * time.Second

var (
	home       string
	configPath string
	passphrase string
	apiURL     string
	verbose    bool
	output     string

	wire *app.Wire
)

// Execute runs the CLI with os.Args.
func Execute() error {
	return run(newRootCmd())
}

func run(root *cobra.Command) error {
	err := root.Execute()
	return multierr.Append(err, closeWire())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "appstate",
		Short:        "Inspect and change persisted app settings and session state",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(); err != nil {
				return err
			}
			if home == "" {
				h, err := app.DefaultHome()
				if err != nil {
					return err
				}
				home = h
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			path := configPath
			if path == "" {
				path = filepath.Join(home, app.ConfigFile)
			}
			cfg, err := app.Load(home, path)
			if err != nil {
				return err
			}
			if passphrase != "" {
				cfg.Passphrase = passphrase
			}
			if apiURL != "" {
				cfg.API.URL = apiURL
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			log, err := app.NewLogger(cfg.Log.Level, verbose)
			if err != nil {
				return err
			}

			w, err := app.NewWire(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			wire = w

			ctx, cancel := context.WithTimeout(cmd.Context(), hydrateTimeout)
			defer cancel()
			if err := w.Ready(ctx); err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "config dir (default $APPSTATE_HOME or ~/.appstate)")
	pf.StringVar(&configPath, "config", "", "config file (default <home>/appstate.toml)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the secure store (or $APPSTATE_PASSPHRASE)")
	pf.StringVar(&apiURL, "api", "", "auth backend URL (e.g. http://127.0.0.1:8081)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVarP(&output, "output", "o", outputText, "output format: text, yaml or json")

	root.AddCommand(
		getCmd(), setCmd(), resetCmd(),
		loginCmd(), logoutCmd(), whoamiCmd(),
		gateCmd(), watchCmd(),
	)
	return root
}

func closeWire() error {
	if wire == nil {
		return nil
	}
	_ = wire.Log.Sync()
	err := wire.Close()
	wire = nil
	return err
}
