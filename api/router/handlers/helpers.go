package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"redirectly/core"
	"redirectly/logger"
	"redirectly/models"

	"github.com/go-chi/chi/v5"
)

// Live holds the in-process components the API reports on. The engine and
// badge board belong to the running proxy.
type Live struct {
	Engine   *core.Engine
	Badges   *core.BadgeBoard
	Ingester *core.ShareIngester
}

var live Live

// Configure sets the components used by the handlers.
func Configure(l Live) {
	live = l
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writeJSON: error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	writeJSON(w, status, models.ErrorResponse{Message: fmt.Sprintf(format, args...)})
}

// ruleIndexParam parses the {index} URL parameter.
func ruleIndexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid rule index %q", raw)
	}
	return index, nil
}
