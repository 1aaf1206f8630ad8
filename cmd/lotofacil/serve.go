package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/lotofacil/internal/api"
)

const defaultServeAddr = "127.0.0.1:8080"

var (
	serveAddr    string
	serveWorkers int
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve statistics and play generation over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().IntVar(&serveWorkers, "workers", defaultWorkers, "parallel workers per generation request")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, e.file.Serve.Addr)
	applyIntConfig(cmd, "workers", &serveWorkers, e.file.Generate.Workers)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.New(api.Options{
		Addr:    serveAddr,
		Store:   st,
		Logger:  e.log,
		Workers: serveWorkers,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
