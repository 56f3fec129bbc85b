package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shivxmr/exemplar/internal/engine"
	"github.com/shivxmr/exemplar/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the report upload server",
		Long: `Serve the HTTP upload endpoint. Each upload of a payment report and
an MTR report is processed synchronously end-to-end and persisted before
the response is returned.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8000", "listen address")
	cmd.Flags().String("output", "output", "directory for the transformed report files")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("processing.output_dir", cmd.Flags().Lookup("output"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	srv := server.New(engine.New(store), store, server.Config{
		Addr:      viper.GetString("server.addr"),
		OutputDir: viper.GetString("processing.output_dir"),
	})

	slog.Info("Starting upload server", "addr", viper.GetString("server.addr"))
	return srv.ListenAndServe(cmd.Context())
}
