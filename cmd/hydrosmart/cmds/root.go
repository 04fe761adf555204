package cmds

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrosmart/reporter/internal/clierrors"
	"github.com/hydrosmart/reporter/internal/config"
	"github.com/hydrosmart/reporter/internal/logger"
	otelhydrosmart "github.com/hydrosmart/reporter/internal/otel"
	"github.com/hydrosmart/reporter/internal/types"
)

var tracer = otel.Tracer("github.com/hydrosmart/reporter/cmd/hydrosmart")

var (
	configFile   string
	cfg          *config.Config
	shutdownOTel func(context.Context) error
	commandSpan  trace.Span
)

var rootCmd = &cobra.Command{
	Use:           "hydrosmart",
	Short:         "Report water quality issues with a photo, a description and your location",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.GetConfig(configFile)
		if err != nil {
			return clierrors.ExitErrorWrap(
				types.ExitErrored,
				fmt.Errorf("failed to load config: %w", err),
			)
		}
		cfg = c
		logger.LogLevel.Set(slog.Level(c.Logging.App.Level))

		shutdown, err := otelhydrosmart.SetupOTelSDK(
			cmd.Context(),
			"hydrosmart",
			otelhydrosmart.Exporter(c.Logging.Telemetry),
		)
		if err != nil {
			logger.Logger.Warn("failed to setup otel sdk", "error", err)
		}
		shutdownOTel = shutdown

		carrier := otelhydrosmart.CreateEnvCarrier()
		extractedContext := otel.GetTextMapPropagator().Extract(context.Background(), carrier)
		ctx, span := tracer.Start(
			cmd.Context(),
			cmd.CommandPath(),
			trace.WithNewRoot(),
			trace.WithLinks(trace.LinkFromContext(extractedContext)),
		)
		commandSpan = span
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)

	if commandSpan != nil {
		if err != nil {
			commandSpan.RecordError(err)
			commandSpan.SetStatus(codes.Error, "command failed")
		} else {
			commandSpan.SetStatus(codes.Ok, "command succeeded")
		}
		commandSpan.End()
	}
	if shutdownOTel != nil {
		if fail := shutdownOTel(ctx); fail != nil {
			logger.Logger.Warn("no clean shutdown for otel", "error", fail)
		}
	}

	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configFile,
		"config",
		"",
		"config file (default searches /etc/hydrosmart, ~/.config/hydrosmart and .)",
	)
}
