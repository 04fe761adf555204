package logger

import (
	"io"
	"log/slog"
	"os"

	slogotel "github.com/remychantenay/slog-otel"
)

// Level shared by every logger built here; set from logging.app.level
var LogLevel = new(slog.LevelVar)

var withOtel = slogotel.NewOtelHandler(slogotel.WithNoTraceEvents(true))

// Diagnostics are written to stderr. Stdout belongs to the reporter's own
// output: banners, coordinates and the --json audit events that scripts
// parse line by line.
var Handler = withOtel(slog.NewJSONHandler(
	os.Stderr,
	&slog.HandlerOptions{AddSource: true, Level: LogLevel},
))
var Logger = slog.New(Handler)

func InitSlog() {
	slog.SetDefault(Logger)
	LogLevel.Set(slog.LevelInfo)
}

// Same handler chain writing to w, for tests that inspect log output
func New(w io.Writer) *slog.Logger {
	return slog.New(withOtel(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: LogLevel})))
}
