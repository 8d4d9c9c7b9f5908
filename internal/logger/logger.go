package logger

import (
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	*slog.Logger
}

func New(logLevel string) *Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(logLevel),
		AddSource: logLevel == "debug",
	}

	handler := slog.NewJSONHandler(os.Stderr, opts)

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything, for silent mode and tests
func Discard() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1})),
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", component),
	}
}

func (l *Logger) RouteOperation(verb, destination, gateway string, durationMs int64, success bool) {
	l.Info("Route operation completed",
		slog.String("verb", verb),
		slog.String("destination", destination),
		slog.String("gateway", gateway),
		slog.Int64("duration_ms", durationMs),
		slog.Bool("success", success))
}

func (l *Logger) CommandIssued(args []string) {
	l.Debug("Route command issued",
		slog.String("args", strings.Join(args, " ")))
}

func (l *Logger) PhantomScan(suspects, confirmed int) {
	l.Info("Phantom route scan completed",
		slog.Int("suspects", suspects),
		slog.Int("confirmed", confirmed))
}

func (l *Logger) CacheUpdated(destination string, present bool, size int) {
	l.Debug("Phantom cache updated",
		slog.String("destination", destination),
		slog.Bool("present", present),
		slog.Int("cache_size", size))
}
