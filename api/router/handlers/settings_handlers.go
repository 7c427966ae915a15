package handlers

import (
	"encoding/json"
	"net/http"

	"redirectly/database"
	"redirectly/logger"
	"redirectly/models"
)

// GetGlobalEnabledHandler reports the global on/off switch.
// @Summary Get global switch
// @Tags Settings
// @Produce json
// @Success 200 {object} models.GlobalEnabledRequest
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/global-enabled [get]
func GetGlobalEnabledHandler(w http.ResponseWriter, r *http.Request) {
	enabled, err := database.GetGlobalEnabled()
	if err != nil {
		logger.Error("GetGlobalEnabledHandler: Error getting global enabled setting: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve global enabled setting")
		return
	}
	writeJSON(w, http.StatusOK, models.GlobalEnabledRequest{Enabled: enabled})
}

// SetGlobalEnabledHandler turns every rule on or off at once. Individual
// rule flags are kept.
// @Summary Set global switch
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body models.GlobalEnabledRequest true "New state"
// @Success 200 {object} models.GlobalEnabledRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/global-enabled [put]
func SetGlobalEnabledHandler(w http.ResponseWriter, r *http.Request) {
	var req models.GlobalEnabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("SetGlobalEnabledHandler: Error decoding request body: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request payload: %v", err)
		return
	}
	defer r.Body.Close()

	if err := database.SetGlobalEnabled(req.Enabled); err != nil {
		logger.Error("SetGlobalEnabledHandler: Error saving global enabled setting: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save global enabled setting")
		return
	}
	logger.Info("Global enabled set to %t", req.Enabled)
	writeJSON(w, http.StatusOK, req)
}

// GetSortHandler returns the rule listing order preference.
// @Summary Get sort preference
// @Tags Settings
// @Produce json
// @Success 200 {object} models.SortRequest
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/sort [get]
func GetSortHandler(w http.ResponseWriter, r *http.Request) {
	order, err := database.GetSortPreference()
	if err != nil {
		logger.Error("GetSortHandler: Error getting sort preference: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve sort preference")
		return
	}
	writeJSON(w, http.StatusOK, models.SortRequest{SortBy: order})
}

// SetSortHandler stores the rule listing order preference.
// @Summary Set sort preference
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body models.SortRequest true "created or name"
// @Success 200 {object} models.SortRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /settings/sort [put]
func SetSortHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: %v", err)
		return
	}
	defer r.Body.Close()
	if req.SortBy != models.SortByCreated && req.SortBy != models.SortByName {
		writeError(w, http.StatusBadRequest, "sortBy must be %q or %q", models.SortByCreated, models.SortByName)
		return
	}

	if err := database.SetSortPreference(req.SortBy); err != nil {
		logger.Error("SetSortHandler: Error saving sort preference: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save sort preference")
		return
	}
	writeJSON(w, http.StatusOK, req)
}
