package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterShareRoutes(r chi.Router) {
	r.Post("/share/ingest", IngestShareLinkHandler)
	r.Post("/share/link", BuildShareLinkHandler)
}
