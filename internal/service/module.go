package service

import (
	"log/slog"

	"github.com/campuslink/channel-delivery-service/internal/adapter/pubsub"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"service",

	fx.Provide(
		newMemberGuard,
		pubsub.NewEventDispatcher,

		// Domain services
		fx.Annotate(
			NewAuthService,
			fx.As(new(Auther)),
		),
		fx.Annotate(
			NewSessionService,
			fx.As(new(Sessioner)),
		),
		fx.Annotate(
			NewChatService,
			fx.As(new(Messenger)),
		),
		fx.Annotate(
			NewHistoryService,
			fx.As(new(Historian)),
		),
		fx.Annotate(
			NewChannelService,
			fx.As(new(ChannelManager)),
		),
	),

	// Intercept the ingestion engine to add cross-cutting concerns.
	fx.Decorate(func(orig Messenger, logger *slog.Logger) Messenger {
		return &MessengerMiddleware{
			Next:   orig,
			Logger: logger,
		}
	}),
)
