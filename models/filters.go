package models

// MatchLogFilters defines parameters for filtering match log queries.
type MatchLogFilters struct {
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
	SortOrder   string `json:"sort_order"`
	TabID       string `json:"tab,omitempty"`
	DirectiveID int    `json:"directive,omitempty"`
	Action      string `json:"action,omitempty"`
	SearchText  string `json:"search,omitempty"`
}

// Normalize clamps paging values to usable defaults.
func (f *MatchLogFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	if f.Limit > 1000 {
		f.Limit = 1000
	}
}
