package ws

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
)

var Module = fx.Module("ws-handler",
	fx.Provide(NewWSHandler),

	fx.Invoke(func(mux *chi.Mux, h *WSHandler) {
		mux.Get("/ws", h.ServeHTTP)
	}),
)
