package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterSettingsRoutes(r chi.Router) {
	r.Route("/settings/global-enabled", func(r chi.Router) {
		r.Get("/", GetGlobalEnabledHandler)
		r.Put("/", SetGlobalEnabledHandler)
		r.Post("/", SetGlobalEnabledHandler)
	})

	r.Route("/settings/sort", func(r chi.Router) {
		r.Get("/", GetSortHandler)
		r.Put("/", SetSortHandler)
	})
}
