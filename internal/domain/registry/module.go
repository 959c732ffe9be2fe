package registry

import (
	"context"

	"github.com/campuslink/channel-delivery-service/config"
	"go.uber.org/fx"
)

var Module = fx.Module("registry",
	fx.Provide(
		func(cfg *config.Config) *Hub {
			return NewHub(
				WithEvictionInterval(cfg.Hub.EvictionInterval),
				WithIdleTimeout(cfg.Hub.IdleTimeout),
				WithMailboxSize(cfg.Hub.MailboxSize),
			)
		},
		fx.Annotate(
			func(h *Hub) Hubber { return h },
			fx.As(new(Hubber)),
		),
	),
	fx.Invoke(func(lc fx.Lifecycle, h Hubber) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				h.Shutdown()
				return nil
			},
		})
	}),
)
