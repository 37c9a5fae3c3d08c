package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"appstate/internal/app"
	"appstate/internal/domain"
	"appstate/internal/notice"
)

type event struct {
	At     time.Time      `json:"at" yaml:"at"`
	Kind   string         `json:"kind" yaml:"kind"`
	Key    string         `json:"key,omitempty" yaml:"key,omitempty"`
	Value  any            `json:"value,omitempty" yaml:"value,omitempty"`
	From   domain.Route   `json:"from,omitempty" yaml:"from,omitempty"`
	To     domain.Route   `json:"to,omitempty" yaml:"to,omitempty"`
	Notice *notice.Notice `json:"notice,omitempty" yaml:"notice,omitempty"`
}

func (e event) text(w io.Writer) error {
	ts := e.At.Format(time.TimeOnly)
	var err error
	switch e.Kind {
	case "redirect":
		_, err = fmt.Fprintf(w, "%s redirect %s -> %s\n", ts, e.From, e.To)
	case "notice":
		_, err = fmt.Fprintf(w, "%s [%s] %s\n", ts, e.Notice.Level, e.Notice.Message)
	case "preferences":
		_, err = fmt.Fprintf(w, "%s preferences %v\n", ts, e.Value)
	default:
		_, err = fmt.Fprintf(w, "%s %s = %v\n", ts, e.Key, e.Value)
	}
	return err
}

// printer serialises events from store callbacks and the notice channel.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) emit(e event) {
	e.At = time.Now()
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = render(p.w, e, e.text)
}

// navigator tracks the location the gate would keep a client on.
type navigator struct {
	mu  sync.Mutex
	loc domain.Route
	out *printer
}

func (n *navigator) Location() domain.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loc
}

func (n *navigator) Replace(to domain.Route) {
	n.mu.Lock()
	from := n.loc
	n.loc = to
	n.mu.Unlock()
	n.out.emit(event{Kind: "redirect", From: from, To: to})
}

func watchCmd() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream setting changes, gate redirects and notices until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := &printer{w: cmd.OutOrStdout()}

			for _, e := range wire.Settings() {
				e := e
				unsub := e.Subscribe(func() {
					v, ok := e.Value()
					if !ok {
						v = nil
					}
					p.emit(event{Kind: "setting", Key: e.Key(), Value: v})
				})
				defer unsub()
			}

			stopPrefs := wire.Preferences.OnChange(func(mode domain.ColorMode, lang domain.Language) {
				p.emit(event{Kind: "preferences", Value: map[string]string{
					"mode":     string(mode),
					"language": lang.String(),
				}})
			})
			defer stopPrefs()

			nav := &navigator{loc: domain.Route(location), out: p}
			if nav.loc == "" {
				nav.loc = wire.Config.Routes.Home
			}
			detach := wire.Gate.Attach(nav)
			defer detach()

			notices, cancel := wire.Notices.Subscribe()
			defer cancel()
			go func() {
				for n := range notices {
					n := n
					p.emit(event{Kind: "notice", Notice: &n})
				}
			}()

			if wire.Watching() || wire.Config.Storage.Plain != app.BackendFile {
				<-ctx.Done()
				return nil
			}
			return wire.Watch(ctx)
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "starting location for the gate (default routes.home)")
	return cmd
}
