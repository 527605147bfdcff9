package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nomadpi-assistant/internal/infra/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the function API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, svc, logger, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := httpapi.NewServer(httpapi.Options{
			Addr:           cfg.Server.Addr,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RateLimit:      cfg.Server.RateLimit,
			RateBurst:      cfg.Server.RateBurst,
			TrustProxy:     cfg.Server.TrustProxy,
		}, logger)
		server.Register(serviceID, svc)

		logger.Info("starting nomadpi assistant",
			"backend", cfg.Backend.BaseURL,
			"summarizer", cfg.Summarizer.Provider,
		)

		if err := server.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()
		logger.Info("shutting down")
		return server.Stop()
	},
}
