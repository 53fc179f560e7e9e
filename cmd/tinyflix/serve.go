package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tinyflix/config"
	"tinyflix/internal/delivery/cron"
	"tinyflix/internal/delivery/httpapi"
	"tinyflix/internal/logger"
	"tinyflix/internal/usecase"
)

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the media clock until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if _, err := logger.Initialize(cfg); err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			defer func() {
				if err := logger.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "failed to close log files: %v\n", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.session.Subscribe(func(vm usecase.ViewModel) {
		if vm.Banner != "" {
			logger.Debug().Str("banner", vm.Banner).Msg("banner shown")
		}
	})

	scheduler := cron.NewScheduler(cfg, app.session)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	apiServer := httpapi.NewServer(cfg, app.session)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})

	logger.Info().
		Str("storage", cfg.StorageBackend).
		Str("media", cfg.MediaBackend).
		Msg("Application started. Press Ctrl+C to stop.")

	err = g.Wait()
	logger.Info().Msg("Application stopped.")
	return err
}
