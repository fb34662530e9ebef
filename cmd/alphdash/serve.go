package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"alph_dashboard/internal/infrastructure/configloader"
	"alph_dashboard/internal/infrastructure/restapi"
	"alph_dashboard/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(globalFlags.ConfigPath, false)
	if err != nil {
		return err
	}
	defer a.close()
	cfg := a.cfg

	if cfg.Wallet.AutoConnect {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Network.RequestTimeoutMillis)*time.Millisecond)
		if err := a.wallet.Connect(ctx); err != nil {
			a.log.Warn("Wallet auto-connect failed, continuing disconnected", zap.String("wallet", cfg.Wallet.Name), zap.Error(err))
		}
		cancel()
	}

	if cfg.Metrics.Enabled {
		metrics.MustRegister()
	}
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := restapi.Handlers{
		Transfers:     restapi.NewTransferHandler(a.transfers, a.networks.ExplorerTxURL),
		Wallet:        restapi.NewWalletHandler(a.wallet, a.balance),
		Notifications: restapi.NewNotificationHandler(a.hub, restapi.OriginChecker(cfg.Server.AllowOrigins), a.log),
		Explorer:      restapi.NewExplorerHandler(a.networkInfo, a.explorer, a.tokens),
	}
	router := restapi.SetupRouter(configloader.NewProvider(cfg), handlers, a.log)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}
	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.log.Info("Server exiting")
	return nil
}
