package handlers

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRuleRoutes(r chi.Router) {
	r.Route("/rules", func(r chi.Router) {
		r.Get("/", ListRulesHandler)
		r.Post("/", AddRuleHandler)
		r.Put("/", ReplaceRulesHandler)

		r.Get("/export", ExportRulesHandler)
		r.Post("/import", ImportRulesHandler)

		r.Route("/{index}", func(r chi.Router) {
			r.Get("/", GetRuleHandler)
			r.Put("/", ReplaceRuleHandler)
			r.Patch("/", PatchRuleHandler)
			r.Delete("/", DeleteRuleHandler)
			r.Post("/duplicate", DuplicateRuleHandler)
		})
	})
}
