package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/campuslink/channel-delivery-service/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ProvideLogger builds the process-wide slog logger. JSON to stdout,
// optionally duplicated into a rotated file.
func ProvideLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Log.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    64, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
		})
	}

	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})).
		With("service", ServiceName)
	slog.SetDefault(logger)
	return logger
}

func ProvideWatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logger.With("component", "watermill"))
}

// ProvidePubSub wires the in-process event pipeline between message ingestion
// and hub fan-out. Fan-out is best-effort downstream of persistence, so a
// bounded buffer is acceptable here.
func ProvidePubSub(wmLogger watermill.LoggerAdapter) (message.Publisher, message.Subscriber) {
	ps := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, wmLogger)
	return ps, ps
}
