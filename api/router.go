package api

import (
	"net/http"

	"redirectly/api/docs"
	"redirectly/api/router/handlers"
	"redirectly/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggo/swag"
)

// NewRouter creates and configures the API router. All registered paths are
// relative to the /api base path.
func NewRouter(live handlers.Live) http.Handler {
	handlers.Configure(live)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	handlers.RegisterHealthRoutes(router)
	handlers.RegisterRuleRoutes(router)
	handlers.RegisterSettingsRoutes(router)
	handlers.RegisterStatusRoutes(router)
	handlers.RegisterShareRoutes(router)
	handlers.RegisterMatchLogRoutes(router)

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			logger.Error("Error rendering swagger doc: %v", err)
			http.Error(w, "Failed to render API documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.Error("API SUB-ROUTER CATCH-ALL: Unhandled route relative to /api: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return router
}
