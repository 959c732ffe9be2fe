package bus

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/fx"
)

var Module = fx.Module("bus-handler",
	fx.Provide(
		NewMessageHandler,
		NewWatermillRouter,
	),

	fx.Invoke(run),
)

func run(lc fx.Lifecycle, router *message.Router, sub message.Subscriber, h *MessageHandler) error {
	if err := h.RegisterHandlers(router, sub); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				// Run blocks for the lifetime of the service.
				if err := router.Run(context.Background()); err != nil {
					h.logger.Error("ROUTER_STOPPED", "err", err)
				}
			}()

			select {
			case <-router.Running():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
		OnStop: func(ctx context.Context) error {
			return router.Close()
		},
	})

	return nil
}
