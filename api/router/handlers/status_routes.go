package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterStatusRoutes(r chi.Router) {
	r.Get("/status", GetStatusHandler)
	r.Get("/directives", GetDirectivesHandler)
	r.Get("/badges", ListBadgesHandler)
	r.Get("/badges/{tab}", GetBadgeHandler)
}
