package models

// Storage keys. They match the keys the change notifications report.
const (
	RulesKey         = "rules"
	GlobalEnabledKey = "globalEnabled"
	SortByKey        = "sortBy"
)

// SortOrder is the persisted rule listing preference.
type SortOrder string

const (
	SortByCreated SortOrder = "created"
	SortByName    SortOrder = "name"
)

// ParseSortOrder maps anything unknown to SortByCreated.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortByName {
		return SortByName
	}
	return SortByCreated
}
