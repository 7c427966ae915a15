package models

// ErrorResponse is a generic error response structure for API
type ErrorResponse struct {
	Message string `json:"message" example:"Error message describing the issue"`
}

// StatusResponse is the popup summary: enabled/total rule counts plus the
// global switch.
type StatusResponse struct {
	Enabled       int    `json:"enabled" example:"3"`
	Total         int    `json:"total" example:"5"`
	Summary       string `json:"summary" example:"3 of 5"`
	GlobalEnabled bool   `json:"globalEnabled" example:"true"`
	Icon          string `json:"icon" example:"active" enum:"active,inactive"`
	Installed     int    `json:"installed" example:"3"`
}

// ShareIngestRequest asks the server to import rules from a share URL.
type ShareIngestRequest struct {
	URL string `json:"url" example:"https://example.com/?redirect=%2Fapi%2F*?to=https%3A%2F%2Fexample.com%2F*"`
}

// ShareIngestResponse returns the URL with share parameters stripped and the
// rules that were imported.
type ShareIngestResponse struct {
	URL   string `json:"url"`
	Rules []Rule `json:"rules"`
}

// ShareLinkRequest asks for a share URL encoding rules on top of Base.
type ShareLinkRequest struct {
	Base  string `json:"base" example:"https://example.com/"`
	Rules []Rule `json:"rules"`
}

// IndexedRule is a rule together with its position in the stored list. Sorted
// listings use Index to address the stored rule in follow-up edits.
type IndexedRule struct {
	Index int `json:"index" yaml:"index" example:"0"`
	Rule  `yaml:",inline"`
}

// GlobalEnabledRequest toggles every rule on or off at once.
type GlobalEnabledRequest struct {
	Enabled bool `json:"enabled" example:"true"`
}

// SortRequest sets the rule listing order.
type SortRequest struct {
	SortBy SortOrder `json:"sortBy" example:"name" enum:"created,name"`
}

// ImportResponse reports how many rules an import stored.
type ImportResponse struct {
	Imported int `json:"imported" example:"4"`
}

// ShareLinkResponse carries a generated share URL.
type ShareLinkResponse struct {
	URL string `json:"url"`
}
