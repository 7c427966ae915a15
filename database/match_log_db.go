package database

import (
	"fmt"
	"strings"
	"time"

	"redirectly/logger"
	"redirectly/models"
)

// matchTimeFormat is fixed-width so that timestamps sort correctly as text.
const matchTimeFormat = "2006-01-02T15:04:05.000000000Z"

// LogRuleMatch records a match reported by the engine.
func LogRuleMatch(info models.MatchInfo) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}
	ts := info.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	result, err := DB.Exec(`INSERT INTO rule_matches (
		timestamp, directive_id, action, tab_id, request_id, resource_type, request_url, redirect_url
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.UTC().Format(matchTimeFormat), info.RuleID, string(info.Action), info.TabID,
		info.RequestID, string(info.Type), info.URL, info.RedirectURL)
	if err != nil {
		logger.Error("LogRuleMatch: DB error for request %s (%s): %v", info.RequestID, info.URL, err)
		return 0, fmt.Errorf("logging rule match: %w", err)
	}
	return result.LastInsertId()
}

// GetMatchLogEntries retrieves paginated and filtered match log entries.
func GetMatchLogEntries(filters models.MatchLogFilters) ([]models.MatchLogEntry, int64, error) {
	filters.Normalize()
	entries := []models.MatchLogEntry{}

	var whereClauses []string
	var args []interface{}
	if filters.TabID != "" {
		whereClauses = append(whereClauses, "tab_id = ?")
		args = append(args, filters.TabID)
	}
	if filters.DirectiveID != 0 {
		whereClauses = append(whereClauses, "directive_id = ?")
		args = append(args, filters.DirectiveID)
	}
	if filters.Action != "" {
		whereClauses = append(whereClauses, "action = ?")
		args = append(args, filters.Action)
	}
	if filters.SearchText != "" {
		whereClauses = append(whereClauses, "(LOWER(request_url) LIKE LOWER(?) OR LOWER(redirect_url) LIKE LOWER(?))")
		pattern := "%" + filters.SearchText + "%"
		args = append(args, pattern, pattern)
	}

	finalWhereClause := ""
	if len(whereClauses) > 0 {
		finalWhereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var totalRecords int64
	if err := DB.QueryRow("SELECT COUNT(id) FROM rule_matches "+finalWhereClause, args...).Scan(&totalRecords); err != nil {
		logger.Error("GetMatchLogEntries: Error counting records: %v", err)
		return nil, 0, fmt.Errorf("counting rule matches: %w", err)
	}
	if totalRecords == 0 {
		return entries, 0, nil
	}

	sortOrder := "DESC"
	if strings.ToUpper(filters.SortOrder) == "ASC" {
		sortOrder = "ASC"
	}
	query := fmt.Sprintf(`SELECT id, timestamp, directive_id, action, tab_id, request_id, resource_type, request_url, redirect_url
		FROM rule_matches %s ORDER BY timestamp %s, id %s LIMIT ? OFFSET ?`, finalWhereClause, sortOrder, sortOrder)
	queryArgs := append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := DB.Query(query, queryArgs...)
	if err != nil {
		logger.Error("GetMatchLogEntries: Error querying records: %v. Args: %v", err, queryArgs)
		return nil, 0, fmt.Errorf("querying rule matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.MatchLogEntry
		var timestampStr, action, resourceType string
		if err := rows.Scan(&e.ID, &timestampStr, &e.RuleID, &action, &e.TabID, &e.RequestID, &resourceType, &e.URL, &e.RedirectURL); err != nil {
			logger.Error("GetMatchLogEntries: Error scanning row: %v", err)
			continue
		}
		e.Timestamp, _ = time.Parse(matchTimeFormat, timestampStr)
		e.Action = models.ActionType(action)
		e.Type = models.ResourceType(resourceType)
		entries = append(entries, e)
	}
	return entries, totalRecords, rows.Err()
}

// ClearMatchLog deletes every match log entry and returns how many were removed.
func ClearMatchLog() (int64, error) {
	result, err := DB.Exec("DELETE FROM rule_matches")
	if err != nil {
		return 0, fmt.Errorf("clearing rule matches: %w", err)
	}
	return result.RowsAffected()
}

// PruneMatchLog keeps only the newest keep entries.
func PruneMatchLog(keep int) (int64, error) {
	result, err := DB.Exec(`DELETE FROM rule_matches WHERE id NOT IN (
		SELECT id FROM rule_matches ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning rule matches: %w", err)
	}
	return result.RowsAffected()
}
