package models

// MatchLogEntry is a persisted MatchInfo.
type MatchLogEntry struct {
	ID int64 `json:"id" readOnly:"true"`
	MatchInfo `yaml:",inline"`
}

// PaginatedMatchLogResponse is one page of the match log.
type PaginatedMatchLogResponse struct {
	Page         int             `json:"page"`
	Limit        int             `json:"limit"`
	TotalRecords int64           `json:"total_records"`
	TotalPages   int64           `json:"total_pages"`
	Items        []MatchLogEntry `json:"items"`
}
