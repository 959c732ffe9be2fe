package cmd

import (
	"github.com/campuslink/channel-delivery-service/config"
	redisinfra "github.com/campuslink/channel-delivery-service/infra/redis"
	httpsrv "github.com/campuslink/channel-delivery-service/infra/server/http"
	storeinfra "github.com/campuslink/channel-delivery-service/infra/store"
	"github.com/campuslink/channel-delivery-service/internal/cache"
	"github.com/campuslink/channel-delivery-service/internal/domain/registry"
	bushandler "github.com/campuslink/channel-delivery-service/internal/handler/bus"
	resthandler "github.com/campuslink/channel-delivery-service/internal/handler/rest"
	wshandler "github.com/campuslink/channel-delivery-service/internal/handler/ws"
	"github.com/campuslink/channel-delivery-service/internal/service"
	"github.com/campuslink/channel-delivery-service/internal/store"
	"go.uber.org/fx"
)

func NewApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			ProvideLogger,
			ProvideWatermillLogger,
			ProvidePubSub,
		),
		redisinfra.Module,
		storeinfra.Module,
		cache.Module,
		store.Module,
		registry.Module,
		service.Module,
		bushandler.Module,
		wshandler.Module,
		resthandler.Module,
		httpsrv.Module,
	)
}
