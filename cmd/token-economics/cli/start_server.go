package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/babylonlabs-io/token-economics/internal/api"
	"github.com/babylonlabs-io/token-economics/internal/auth"
	"github.com/babylonlabs-io/token-economics/internal/clock"
	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/observability/metrics"
	"github.com/babylonlabs-io/token-economics/internal/observability/tracing"
	"github.com/babylonlabs-io/token-economics/internal/queue"
	"github.com/babylonlabs-io/token-economics/internal/services"
)

const shutdownTimeout = 10 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the token economics api server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		return fmt.Errorf("error while loading config file %s: %w", cfgPath, err)
	}

	dbClient, err := newDbClient(ctx, &cfg.Db)
	if err != nil {
		return err
	}

	ledgerClient, err := newLedger(cfg)
	if err != nil {
		return err
	}

	var publisher queue.EventPublisher = queue.NoopPublisher{}
	if cfg.Queue != nil {
		zapLogger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("error while creating zap logger: %w", err)
		}
		defer func() {
			// stderr sync returns EINVAL on some platforms
			_ = zapLogger.Sync()
		}()

		qm, err := queue.NewQueueManager(cfg.Queue, zapLogger)
		if err != nil {
			return fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		defer qm.Shutdown()
		publisher = qm
	}

	service := services.NewService(cfg, dbClient, ledgerClient, auth.Identity{}, clock.System{}, publisher)

	metrics.Init(cfg.Metrics.GetMetricsPort())

	statsPoller := service.StartStatsPoller(ctx)
	defer statsPoller.Stop()

	server := api.New(&cfg.Server, service, auth.NewKeyring(&cfg.Auth))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
