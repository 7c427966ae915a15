package handlers

import (
	"net/http"
	"strconv"

	"redirectly/database"
	"redirectly/logger"
	"redirectly/models"
)

// GetMatchLogHandler retrieves paginated and filtered rule match entries.
// @Summary List rule matches
// @Description Requests the proxy rewrote, newest first unless sort_order=asc.
// @Tags Matches
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Entries per page" default(50)
// @Param sort_order query string false "asc or desc" Enums(asc, desc)
// @Param tab query string false "Only matches from this tab"
// @Param directive query int false "Only matches of this directive id"
// @Param action query string false "Only this action type" Enums(redirect, modifyHeaders)
// @Param search query string false "Substring of the request or redirect URL"
// @Success 200 {object} models.PaginatedMatchLogResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /matches [get]
func GetMatchLogHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := models.MatchLogFilters{
		SortOrder:  q.Get("sort_order"),
		TabID:      q.Get("tab"),
		Action:     q.Get("action"),
		SearchText: q.Get("search"),
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	if s := q.Get("directive"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid directive parameter, must be an integer")
			return
		}
		filters.DirectiveID = id
	}
	filters.Normalize()

	entries, total, err := database.GetMatchLogEntries(filters)
	if err != nil {
		logger.Error("GetMatchLogHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve match log")
		return
	}

	totalPages := total / int64(filters.Limit)
	if total%int64(filters.Limit) != 0 {
		totalPages++
	}
	writeJSON(w, http.StatusOK, models.PaginatedMatchLogResponse{
		Page:         filters.Page,
		Limit:        filters.Limit,
		TotalRecords: total,
		TotalPages:   totalPages,
		Items:        entries,
	})
}

// ClearMatchLogHandler deletes every match log entry.
// @Summary Clear rule matches
// @Tags Matches
// @Produce json
// @Success 200 {object} map[string]int64 "{"deleted": 12}"
// @Failure 500 {object} models.ErrorResponse
// @Router /matches [delete]
func ClearMatchLogHandler(w http.ResponseWriter, r *http.Request) {
	deleted, err := database.ClearMatchLog()
	if err != nil {
		logger.Error("ClearMatchLogHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear match log")
		return
	}
	logger.Info("ClearMatchLogHandler: removed %d match log entries", deleted)
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
