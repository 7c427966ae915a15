package handlers

import (
	"net/http"

	"redirectly/core"
	"redirectly/database"
	"redirectly/logger"
	"redirectly/models"

	"github.com/go-chi/chi/v5"
)

// GetStatusHandler returns the popup summary.
// @Summary Rule summary
// @Description Enabled and total rule counts, the global switch and the number of installed directives.
// @Tags Status
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /status [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := database.LoadSnapshot()
	if err != nil {
		logger.Error("GetStatusHandler: Error loading state: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load state")
		return
	}
	installed := 0
	if live.Engine != nil {
		installed = len(live.Engine.GetDynamicRules())
	}
	writeJSON(w, http.StatusOK, core.BuildStatus(snap.Rules, snap.GlobalEnabled, installed))
}

// GetDirectivesHandler lists the directives installed in the engine.
// @Summary Installed directives
// @Tags Status
// @Produce json
// @Success 200 {array} models.Directive
// @Router /directives [get]
func GetDirectivesHandler(w http.ResponseWriter, r *http.Request) {
	directives := []models.Directive{}
	if live.Engine != nil {
		directives = live.Engine.GetDynamicRules()
	}
	writeJSON(w, http.StatusOK, directives)
}

// ListBadgesHandler lists the tabs showing a match badge.
// @Summary Tab badges
// @Tags Status
// @Produce json
// @Success 200 {array} models.Badge
// @Router /badges [get]
func ListBadgesHandler(w http.ResponseWriter, r *http.Request) {
	badges := []models.Badge{}
	if live.Badges != nil {
		badges = live.Badges.All()
	}
	writeJSON(w, http.StatusOK, badges)
}

// GetBadgeHandler returns the badge of one tab.
// @Summary Tab badge
// @Tags Status
// @Produce json
// @Param tab path string true "Tab id"
// @Success 200 {object} models.Badge
// @Router /badges/{tab} [get]
func GetBadgeHandler(w http.ResponseWriter, r *http.Request) {
	tab := chi.URLParam(r, "tab")
	badge := models.Badge{TabID: tab}
	if live.Badges != nil {
		badge = live.Badges.Get(tab)
	}
	writeJSON(w, http.StatusOK, badge)
}
