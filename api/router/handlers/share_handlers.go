package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"redirectly/core"
	"redirectly/database"
	"redirectly/logger"
	"redirectly/models"
)

// IngestShareLinkHandler imports the rules encoded in a share URL.
// @Summary Ingest a share link
// @Description Merges the redirect/setcookie rules of the URL into the stored list and returns the URL without those parameters. A malformed link imports nothing and is returned unchanged.
// @Tags Share
// @Accept json
// @Produce json
// @Param body body models.ShareIngestRequest true "Share URL"
// @Success 200 {object} models.ShareIngestResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /share/ingest [post]
func IngestShareLinkHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ShareIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: %v", err)
		return
	}
	defer r.Body.Close()
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	ingester := live.Ingester
	if ingester == nil {
		ingester = core.NewShareIngester(database.LocalStorage{}, nil)
	}
	cleaned, rules, err := ingester.Ingest(req.URL)
	if err != nil {
		logger.Error("IngestShareLinkHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store shared rules")
		return
	}
	if rules == nil {
		rules = []models.Rule{}
	}
	writeJSON(w, http.StatusOK, models.ShareIngestResponse{URL: cleaned, Rules: rules})
}

// BuildShareLinkHandler encodes rules into a share URL.
// @Summary Build a share link
// @Tags Share
// @Accept json
// @Produce json
// @Param body body models.ShareLinkRequest true "Base URL and rules"
// @Success 200 {object} models.ShareLinkResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /share/link [post]
func BuildShareLinkHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ShareLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: %v", err)
		return
	}
	defer r.Body.Close()

	link, err := core.BuildShareLink(req.Base, req.Rules)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, models.ShareLinkResponse{URL: link})
}
