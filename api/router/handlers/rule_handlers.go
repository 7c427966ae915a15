package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"redirectly/core"
	"redirectly/database"
	"redirectly/logger"
	"redirectly/models"

	"github.com/andybalholm/brotli"
)

const maxImportBytes = 10 << 20

// ListRulesHandler lists the stored rules in display order.
// @Summary List rules
// @Description Returns every rule with its stored index. Without a sort parameter the stored preference is used.
// @Tags Rules
// @Produce json
// @Param sort query string false "Sort order" Enums(created, name)
// @Success 200 {array} models.IndexedRule
// @Failure 500 {object} models.ErrorResponse
// @Router /rules [get]
func ListRulesHandler(w http.ResponseWriter, r *http.Request) {
	rules, err := database.GetRules()
	if err != nil {
		logger.Error("ListRulesHandler: Error fetching rules: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve rules")
		return
	}

	order := models.ParseSortOrder(r.URL.Query().Get("sort"))
	if r.URL.Query().Get("sort") == "" {
		if order, err = database.GetSortPreference(); err != nil {
			logger.Error("ListRulesHandler: Error fetching sort preference: %v", err)
			order = models.SortByCreated
		}
	}

	out := make([]models.IndexedRule, 0, len(rules))
	for _, idx := range core.SortedIndexes(rules, order) {
		out = append(out, models.IndexedRule{Index: idx, Rule: rules[idx]})
	}
	writeJSON(w, http.StatusOK, out)
}

// AddRuleHandler appends a rule. An empty body adds a blank enabled redirect rule.
// @Summary Add a rule
// @Tags Rules
// @Accept json
// @Produce json
// @Param rule body models.Rule false "Rule fields; omitted fields take the blank-rule defaults"
// @Success 201 {object} models.IndexedRule
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /rules [post]
func AddRuleHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	rule := models.NewBlankRule()
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &rule); err != nil {
			logger.Error("AddRuleHandler: Error decoding request body: %v", err)
			writeError(w, http.StatusBadRequest, "Invalid request payload: %v", err)
			return
		}
	}
	if !rule.Type.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown rule type %q", rule.Type)
		return
	}

	index, err := database.AddRule(rule)
	if err != nil {
		logger.Error("AddRuleHandler: Error adding rule: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add rule")
		return
	}
	writeJSON(w, http.StatusCreated, models.IndexedRule{Index: index, Rule: rule})
}

// ReplaceRulesHandler replaces the whole rule list.
// @Summary Replace all rules
// @Tags Rules
// @Accept json
// @Produce json
// @Param rules body []models.Rule true "New rule list"
// @Success 200 {array} models.Rule
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /rules [put]
func ReplaceRulesHandler(w http.ResponseWriter, r *http.Request) {
	var rules []models.Rule
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		logger.Error("ReplaceRulesHandler: Error decoding request body: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request payload: %v", err)
		return
	}
	defer r.Body.Close()
	if rules == nil {
		rules = []models.Rule{}
	}
	for i, rule := range rules {
		if !rule.Type.Valid() {
			writeError(w, http.StatusBadRequest, "Rule %d: unknown rule type %q", i, rule.Type)
			return
		}
	}

	if err := database.SetRules(rules); err != nil {
		logger.Error("ReplaceRulesHandler: Error saving rules: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save rules")
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// GetRuleHandler returns one rule by stored index.
// @Summary Get a rule
// @Tags Rules
// @Produce json
// @Param index path int true "Stored rule index"
// @Success 200 {object} models.IndexedRule
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /rules/{index} [get]
func GetRuleHandler(w http.ResponseWriter, r *http.Request) {
	index, err := ruleIndexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	rule, err := database.GetRule(index)
	if err != nil {
		writeRuleError(w, "GetRuleHandler", index, err)
		return
	}
	writeJSON(w, http.StatusOK, models.IndexedRule{Index: index, Rule: rule})
}

// ReplaceRuleHandler overwrites one rule.
// @Summary Replace a rule
// @Tags Rules
// @Accept json
// @Produce json
// @Param index path int true "Stored rule index"
// @Param rule body models.Rule true "Rule"
// @Success 200 {object} models.IndexedRule
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /rules/{index} [put]
func ReplaceRuleHandler(w http.ResponseWriter, r *http.Request) {
	index, err := ruleIndexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	var rule models.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: %v", err)
		return
	}
	defer r.Body.Close()
	if !rule.Type.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown rule type %q", rule.Type)
		return
	}

	if err := database.ReplaceRule(index, rule); err != nil {
		writeRuleError(w, "ReplaceRuleHandler", index, err)
		return
	}
	writeJSON(w, http.StatusOK, models.IndexedRule{Index: index, Rule: rule})
}

// PatchRuleHandler edits individual fields of one rule.
// @Summary Edit rule fields
// @Tags Rules
// @Accept json
// @Produce json
// @Param index path int true "Stored rule index"
// @Param patch body models.RulePatch true "Fields to change"
// @Success 200 {object} models.IndexedRule
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /rules/{index} [patch]
func PatchRuleHandler(w http.ResponseWriter, r *http.Request) {
	index, err := ruleIndexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	var patch models.RulePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload: %v", err)
		return
	}
	defer r.Body.Close()
	if patch.Type != nil && !patch.Type.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown rule type %q", *patch.Type)
		return
	}

	rule, err := database.PatchRule(index, patch)
	if err != nil {
		writeRuleError(w, "PatchRuleHandler", index, err)
		return
	}
	writeJSON(w, http.StatusOK, models.IndexedRule{Index: index, Rule: rule})
}

// DeleteRuleHandler removes one rule.
// @Summary Delete a rule
// @Tags Rules
// @Param index path int true "Stored rule index"
// @Success 204 "No Content"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /rules/{index} [delete]
func DeleteRuleHandler(w http.ResponseWriter, r *http.Request) {
	index, err := ruleIndexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if err := database.DeleteRule(index); err != nil {
		writeRuleError(w, "DeleteRuleHandler", index, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateRuleHandler inserts a copy of a rule right after it.
// @Summary Duplicate a rule
// @Tags Rules
// @Produce json
// @Param index path int true "Stored rule index"
// @Success 201 {object} models.IndexedRule
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /rules/{index}/duplicate [post]
func DuplicateRuleHandler(w http.ResponseWriter, r *http.Request) {
	index, err := ruleIndexParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	copyIndex, err := database.DuplicateRule(index)
	if err != nil {
		writeRuleError(w, "DuplicateRuleHandler", index, err)
		return
	}
	rule, err := database.GetRule(copyIndex)
	if err != nil {
		writeRuleError(w, "DuplicateRuleHandler", copyIndex, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.IndexedRule{Index: copyIndex, Rule: rule})
}

// ExportRulesHandler downloads the rule list as a JSON file.
// @Summary Export rules
// @Description Pretty-printed JSON array, brotli-compressed when the client accepts br.
// @Tags Rules
// @Produce json
// @Success 200 {array} models.Rule
// @Failure 500 {object} models.ErrorResponse
// @Router /rules/export [get]
func ExportRulesHandler(w http.ResponseWriter, r *http.Request) {
	rules, err := database.GetRules()
	if err != nil {
		logger.Error("ExportRulesHandler: Error fetching rules: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve rules")
		return
	}
	data, err := core.ExportRules(rules)
	if err != nil {
		logger.Error("ExportRulesHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to export rules")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", core.ExportFileName))
	w.Header().Add("Vary", "Accept-Encoding")
	if !acceptsBrotli(r) {
		w.Write(data)
		return
	}

	w.Header().Set("Content-Encoding", "br")
	bw := brotli.NewWriter(w)
	if _, err := bw.Write(data); err != nil {
		logger.Error("ExportRulesHandler: Error writing brotli body: %v", err)
	}
	if err := bw.Close(); err != nil {
		logger.Error("ExportRulesHandler: Error closing brotli writer: %v", err)
	}
}

func acceptsBrotli(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.TrimSpace(name) != "br" {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}

// ImportRulesHandler replaces the rule list with an exported file.
// @Summary Import rules
// @Description Replaces all rules. Fields are coerced leniently; anything but a JSON array is rejected and leaves the stored rules untouched.
// @Tags Rules
// @Accept json
// @Produce json
// @Param rules body []models.Rule true "Exported rule file"
// @Success 200 {object} models.ImportResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /rules/import [post]
func ImportRulesHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	rules, err := core.ImportRules(data)
	if err != nil {
		logger.Warn("ImportRulesHandler: rejected import: %v", err)
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if err := database.SetRules(rules); err != nil {
		logger.Error("ImportRulesHandler: Error saving imported rules: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save imported rules")
		return
	}
	logger.Info("ImportRulesHandler: imported %d rules", len(rules))
	writeJSON(w, http.StatusOK, models.ImportResponse{Imported: len(rules)})
}

func writeRuleError(w http.ResponseWriter, handler string, index int, err error) {
	if errors.Is(err, database.ErrRuleNotFound) {
		writeError(w, http.StatusNotFound, "Rule %d not found", index)
		return
	}
	logger.Error("%s: Error on rule %d: %v", handler, index, err)
	writeError(w, http.StatusInternalServerError, "Failed to update rule %d", index)
}
