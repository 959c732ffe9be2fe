package bus

import (
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/campuslink/channel-delivery-service/internal/adapter/pubsub"
	"github.com/google/uuid"
)

// metaTraceID carries the correlation id through message metadata, next to
// the routing channel set by the dispatcher.
const metaTraceID = "trace_id"

// [TRACE_ID_MIDDLEWARE]
// Stamps a trace id onto every message entering the pipeline so its log
// lines can be correlated across retries.
func TraceIDMiddleware(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		if msg.Metadata.Get(metaTraceID) == "" {
			msg.Metadata.Set(metaTraceID, uuid.NewString())
		}
		return h(msg)
	}
}

// [LOGGING_MIDDLEWARE]
// Structured logging with latency, trace id and the routing channel.
func LoggingMiddleware(logger *slog.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			start := time.Now()
			msgs, err := h(msg)

			logger.Debug("MESSAGE_HANDLED",
				"msg_id", msg.UUID,
				"trace_id", msg.Metadata.Get(metaTraceID),
				"channel_id", msg.Metadata.Get(pubsub.MetaChannelID),
				"duration_ms", time.Since(start).Milliseconds(),
				"success", err == nil,
			)
			return msgs, err
		}
	}
}

// [RETRY_MIDDLEWARE]
func NewRetryMiddleware() middleware.Retry {
	return middleware.Retry{
		MaxRetries:      3,
		InitialInterval: time.Second * 2,
		MaxInterval:     time.Second * 15,
		Multiplier:      2.0,
	}
}
