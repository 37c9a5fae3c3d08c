package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var addr string
	cmd := &cobra.Command{
		Use:   "mockapi",
		Short: "In-memory auth backend for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newServer(log).routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			log.Info("mockapi listening", zap.String("addr", addr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8081", "listen address")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
