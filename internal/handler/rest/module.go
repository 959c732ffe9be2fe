package rest

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
)

var Module = fx.Module("rest-handler",
	fx.Provide(NewRESTHandler),

	fx.Invoke(func(mux *chi.Mux, h *RESTHandler) {
		h.RegisterRoutes(mux)
	}),
)
