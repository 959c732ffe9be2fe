// Package httpsrv owns the HTTP listener serving both the websocket gateway
// and the REST fallback surface.
package httpsrv

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campuslink/channel-delivery-service/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
)

func ProvideRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	return r
}

func ProvideServer(cfg *config.Config, r *chi.Mux) *http.Server {
	// No global read/write timeouts: the websocket gateway holds connections
	// open indefinitely. Keepalive deadlines live at the connection level.
	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}
}

var Module = fx.Module("http-server",
	fx.Provide(
		ProvideRouter,
		ProvideServer,
	),
	fx.Invoke(func(lc fx.Lifecycle, srv *http.Server, logger *slog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					logger.Info("HTTP_LISTENING", "addr", srv.Addr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("HTTP_SERVER_FAILED", "err", err)
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	}),
)
