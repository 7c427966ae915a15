package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterMatchLogRoutes(r chi.Router) {
	r.Get("/matches", GetMatchLogHandler)
	r.Delete("/matches", ClearMatchLogHandler)
}
