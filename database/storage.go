package database

import "redirectly/models"

// LocalStorage exposes the package-level store through the method set the
// core package consumes.
type LocalStorage struct{}

func (LocalStorage) Rules() ([]models.Rule, error)          { return GetRules() }
func (LocalStorage) SetRules(rules []models.Rule) error     { return SetRules(rules) }
func (LocalStorage) GlobalEnabled() (bool, error)           { return GetGlobalEnabled() }
func (LocalStorage) SetGlobalEnabled(enabled bool) error    { return SetGlobalEnabled(enabled) }
func (LocalStorage) SortBy() (models.SortOrder, error)      { return GetSortPreference() }
func (LocalStorage) SetSortBy(order models.SortOrder) error { return SetSortPreference(order) }

func (LocalStorage) Subscribe(fn func(models.StorageChanges)) func() {
	return Subscribe(fn)
}
