package main

import (
	"github.com/spf13/cobra"

	"github.com/masato/disclosure-verifier/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start an HTTP server exposing POST /api/v1/verify for multipart disclosure verification requests.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	logger := newLogger(cfg)

	verifier, client, err := newVerifier(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close model client", "error", err)
		}
	}()

	srv := server.New(server.Config{Port: cfg.Port}, verifier, logger)
	return srv.Start()
}
