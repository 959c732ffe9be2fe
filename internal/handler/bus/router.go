package bus

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/campuslink/channel-delivery-service/internal/adapter/pubsub"
	"github.com/campuslink/channel-delivery-service/internal/domain/registry"
)

func NewWatermillRouter(wmLogger watermill.LoggerAdapter) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: time.Second * 15,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("ROUTER_INIT_FAILED: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	return router, nil
}

type MessageHandler struct {
	hub    registry.Hubber
	logger *slog.Logger
}

func NewMessageHandler(hub registry.Hubber, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{hub: hub, logger: logger}
}

// [REGISTRATION_PIPELINE]
func (h *MessageHandler) RegisterHandlers(router *message.Router, sub message.Subscriber) error {
	configs := []struct {
		name    string
		topic   string
		handler message.NoPublishHandlerFunc
	}{
		{"ON_MSG_CREATED", pubsub.TopicMessageCreated, Bind(h, h.OnMessageCreatedV1)},
	}

	for _, c := range configs {
		router.AddConsumerHandler(c.name, c.topic, sub, c.handler).AddMiddleware(
			TraceIDMiddleware,
			LoggingMiddleware(h.logger),
			NewRetryMiddleware().Middleware,
			middleware.Timeout(time.Second*30),
		)
	}

	h.logger.Info("BUS_PIPELINE_READY", "handlers", len(configs))
	return nil
}
