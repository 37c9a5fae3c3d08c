package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"appstate/internal/app"
)

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [setting]",
		Short: "Print a setting, or every setting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := wire.Settings()
			if len(args) == 1 {
				e, err := wire.Setting(args[0])
				if err != nil {
					return err
				}
				entries = []app.Entry{e}
			}

			views := make([]settingView, 0, len(entries))
			for _, e := range entries {
				v, ok, err := e.Load(cmd.Context())
				if err != nil {
					return err
				}
				views = append(views, settingView{Key: e.Key(), Present: ok, Value: v})
			}

			var out any = views
			if len(views) == 1 {
				out = views[0]
			}
			return render(cmd.OutOrStdout(), out, func(w io.Writer) error {
				for _, v := range views {
					if err := v.text(w); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <setting> <value>",
		Short: "Write a setting",
		Long: `Write a setting.

  dark-mode  true|false|dark|light
  language   en|fr|es|ar
  session    a session JSON object, e.g. {"token":"..."}`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := wire.Setting(args[0])
			if err != nil {
				return err
			}
			if err := e.SetText(cmd.Context(), args[1]); err != nil {
				return err
			}
			v, ok := e.Value()
			view := settingView{Key: e.Key(), Present: ok, Value: v}
			return render(cmd.OutOrStdout(), view, view.text)
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <setting>",
		Short: "Restore a setting's default, or clear it when it has none",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := wire.Setting(args[0])
			if err != nil {
				return err
			}
			if err := e.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset %s: %w", e.Key(), err)
			}
			v, ok := e.Value()
			view := settingView{Key: e.Key(), Present: ok, Value: v}
			return render(cmd.OutOrStdout(), view, view.text)
		},
	}
}
