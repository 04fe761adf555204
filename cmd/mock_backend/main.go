package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hydrosmart/reporter/cmd/mock_backend/routes"
	"github.com/hydrosmart/reporter/internal/logger"
	otelhydrosmart "github.com/hydrosmart/reporter/internal/otel"
)

var (
	listenAddress string
	telemetry     string
)

var rootCmd = &cobra.Command{
	Use:           "mock_backend",
	Short:         "Local stand-in for the HydroSmart query API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		shutdown, err := otelhydrosmart.SetupOTelSDK(
			ctx,
			"hydrosmart-mock-backend",
			otelhydrosmart.Exporter(telemetry),
		)
		if err != nil {
			logger.Logger.Warn("failed to setup otel sdk", "error", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Logger.Error("failed to flush otel data", "error", err)
			}
		}()

		e := routes.BuildEcho(logger.Logger)

		errch := make(chan error, 1)
		go func() {
			<-ctx.Done()
			logger.Logger.Info("Got shutdown signal!")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			errch <- e.Shutdown(shutdownCtx)
			close(errch)
		}()

		logger.Logger.Info("listening", "address", listenAddress)
		if err := e.Start(listenAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return <-errch
	},
}

func main() {
	ctx, cancelSignal := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)

	logger.InitSlog()

	rootCmd.Flags().StringVar(&listenAddress, "listen", ":8000", "address to listen on")
	rootCmd.Flags().StringVar(&telemetry, "telemetry", "none", "telemetry exporter: none, stdout or otlp")

	err := rootCmd.ExecuteContext(ctx)
	cancelSignal()
	if err != nil {
		logger.Logger.Error("mock backend failed", "error", err)
		os.Exit(1)
	}
}
