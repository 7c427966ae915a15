package models

// StorageChange is the before/after value of one storage key.
type StorageChange struct {
	OldValue interface{} `json:"oldValue,omitempty"`
	NewValue interface{} `json:"newValue,omitempty"`
}

// StorageChanges maps storage keys (RulesKey, GlobalEnabledKey, SortByKey) to
// what changed. Only keys whose value actually changed are present.
type StorageChanges map[string]StorageChange

// Snapshot is the complete persisted state.
type Snapshot struct {
	Rules         []Rule    `json:"rules"`
	GlobalEnabled bool      `json:"globalEnabled"`
	SortBy        SortOrder `json:"sortBy"`
}
