package cache

import (
	"go.uber.org/fx"
)

var Module = fx.Module("cache",
	fx.Provide(
		newGuard,
		fx.Annotate(NewRedisPresence, fx.As(new(Presence))),
		fx.Annotate(NewRedisMembers, fx.As(new(Members))),
		fx.Annotate(NewRedisRecent, fx.As(new(RecentMessages))),
	),
)
