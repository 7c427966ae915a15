package models

import "time"

// ActionType is the kind of action a filtering directive performs.
type ActionType string

const (
	ActionRedirect      ActionType = "redirect"
	ActionModifyHeaders ActionType = "modifyHeaders"
)

// HeaderOperation is the header mutation of a modifyHeaders action.
type HeaderOperation string

const (
	HeaderSet    HeaderOperation = "set"
	HeaderAppend HeaderOperation = "append"
	HeaderRemove HeaderOperation = "remove"
)

// ResourceType classifies a request the way the filtering engine sees it.
type ResourceType string

const (
	ResourceMainFrame      ResourceType = "main_frame"
	ResourceSubFrame       ResourceType = "sub_frame"
	ResourceStylesheet     ResourceType = "stylesheet"
	ResourceScript         ResourceType = "script"
	ResourceImage          ResourceType = "image"
	ResourceFont           ResourceType = "font"
	ResourceObject         ResourceType = "object"
	ResourceXMLHTTPRequest ResourceType = "xmlhttprequest"
	ResourcePing           ResourceType = "ping"
	ResourceCSPReport      ResourceType = "csp_report"
	ResourceMedia          ResourceType = "media"
	ResourceWebSocket      ResourceType = "websocket"
	ResourceOther          ResourceType = "other"
)

// AllResourceTypes is the allowlist every compiled rule applies to.
var AllResourceTypes = []ResourceType{
	ResourceMainFrame, ResourceSubFrame, ResourceStylesheet, ResourceScript,
	ResourceImage, ResourceFont, ResourceObject, ResourceXMLHTTPRequest,
	ResourcePing, ResourceCSPReport, ResourceMedia, ResourceWebSocket, ResourceOther,
}

type Condition struct {
	RegexFilter              string         `json:"regexFilter"`
	IsURLFilterCaseSensitive bool           `json:"isUrlFilterCaseSensitive"`
	ResourceTypes            []ResourceType `json:"resourceTypes"`
}

type Redirect struct {
	RegexSubstitution string `json:"regexSubstitution"`
}

type HeaderInfo struct {
	Header    string          `json:"header"`
	Operation HeaderOperation `json:"operation"`
	Value     string          `json:"value,omitempty"`
}

type Action struct {
	Type           ActionType   `json:"type"`
	Redirect       *Redirect    `json:"redirect,omitempty"`
	RequestHeaders []HeaderInfo `json:"requestHeaders,omitempty"`
}

// Directive is one installed filtering rule: a match condition plus an action.
type Directive struct {
	ID        int       `json:"id"`
	Priority  int       `json:"priority"`
	Action    Action    `json:"action"`
	Condition Condition `json:"condition"`
}

// MatchInfo describes a directive that matched a live request.
type MatchInfo struct {
	RuleID    int          `json:"ruleId"`
	TabID     string       `json:"tabId"`
	URL       string       `json:"url"`
	Type      ResourceType `json:"type"`
	RequestID string       `json:"requestId"`
	Timestamp time.Time    `json:"timestamp"`
	// Action and RedirectURL describe what the proxy did with the request.
	Action      ActionType `json:"action"`
	RedirectURL string     `json:"redirectUrl,omitempty"`
}

// Badge is the per-tab indicator shown after a rule matched.
type Badge struct {
	TabID string `json:"tabId"`
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}
