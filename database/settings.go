package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"redirectly/logger"
	"redirectly/models"
)

// GetSetting retrieves a specific setting value from the app_settings table.
func GetSetting(key string) (string, error) {
	var value string
	err := DB.QueryRow("SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil // Return empty string if not found, not an error
		}
		return "", fmt.Errorf("failed to get setting '%s': %w", key, err)
	}
	return value, nil
}

// SetSetting saves or updates a specific setting value in the app_settings table.
func SetSetting(key, value string) error {
	stmt, err := DB.Prepare("INSERT OR REPLACE INTO app_settings (key, value) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare set setting statement for key '%s': %w", key, err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(key, value); err != nil {
		return fmt.Errorf("failed to execute set setting for key '%s': %w", key, err)
	}
	return nil
}

// GetGlobalEnabled returns the global on/off switch. Unset means on.
func GetGlobalEnabled() (bool, error) {
	raw, err := GetSetting(models.GlobalEnabledKey)
	if err != nil {
		return true, err
	}
	if raw == "" {
		return true, nil
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Error("GetGlobalEnabled: stored value '%s' is not a bool, treating as enabled: %v", raw, err)
		return true, nil
	}
	return enabled, nil
}

// SetGlobalEnabled stores the global switch and notifies subscribers.
func SetGlobalEnabled(enabled bool) error {
	if err := SetSetting(models.GlobalEnabledKey, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	publishKey(models.GlobalEnabledKey, enabled)
	return nil
}

// GetSortPreference returns the stored listing order, SortByCreated if unset.
func GetSortPreference() (models.SortOrder, error) {
	raw, err := GetSetting(models.SortByKey)
	if err != nil {
		return models.SortByCreated, err
	}
	return models.ParseSortOrder(raw), nil
}

// SetSortPreference stores the listing order and notifies subscribers.
func SetSortPreference(order models.SortOrder) error {
	order = models.ParseSortOrder(string(order))
	if err := SetSetting(models.SortByKey, string(order)); err != nil {
		return err
	}
	publishKey(models.SortByKey, order)
	return nil
}

// LoadSnapshot reads the complete persisted state.
func LoadSnapshot() (models.Snapshot, error) {
	var snap models.Snapshot
	var err error
	if snap.Rules, err = GetRules(); err != nil {
		return snap, err
	}
	if snap.GlobalEnabled, err = GetGlobalEnabled(); err != nil {
		return snap, err
	}
	if snap.SortBy, err = GetSortPreference(); err != nil {
		return snap, err
	}
	return snap, nil
}
