package core

import (
	"fmt"
	"sync"

	"redirectly/logger"
	"redirectly/models"
)

// Storage is the persisted rule and settings state. database.LocalStorage is
// the production implementation.
type Storage interface {
	Rules() ([]models.Rule, error)
	SetRules(rules []models.Rule) error
	GlobalEnabled() (bool, error)
	SetGlobalEnabled(enabled bool) error
	SortBy() (models.SortOrder, error)
	SetSortBy(order models.SortOrder) error
	Subscribe(fn func(models.StorageChanges)) func()
}

// Background keeps the engine's installed directives in sync with the stored
// rules and the global switch.
type Background struct {
	store  Storage
	engine *Engine

	mu            sync.Mutex
	rules         []models.Rule
	globalEnabled bool
	unsubscribe   func()
}

func NewBackground(store Storage, engine *Engine) *Background {
	return &Background{store: store, engine: engine, globalEnabled: true}
}

// Start loads the stored state, installs it and follows later changes.
func (b *Background) Start() error {
	rules, err := b.store.Rules()
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	enabled, err := b.store.GlobalEnabled()
	if err != nil {
		return fmt.Errorf("loading global enabled: %w", err)
	}

	b.mu.Lock()
	b.rules = rules
	b.globalEnabled = enabled
	b.applyLocked()
	b.mu.Unlock()

	b.unsubscribe = b.store.Subscribe(b.handleChanges)
	logger.Info("Background: started with %d rules (%d enabled), global enabled %t", len(rules), models.CountEnabled(rules), enabled)
	return nil
}

// Stop detaches from storage notifications.
func (b *Background) Stop() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// Apply reinstalls the compilation of the latest known rules and global
// switch. A rejected batch is logged and the previous set stays installed.
func (b *Background) Apply() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applyLocked()
}

// applyLocked reads, compiles and installs under b.mu so that concurrent
// reapplies cannot interleave their remove and add sets.
func (b *Background) applyLocked() error {
	current := b.engine.GetDynamicRules()
	removeIDs := make([]int, 0, len(current))
	for _, d := range current {
		removeIDs = append(removeIDs, d.ID)
	}

	add := BuildDirectives(b.rules, b.globalEnabled)
	if err := b.engine.UpdateDynamicRules(removeIDs, add); err != nil {
		logger.ProxyError("Background: failed to install %d directives: %v", len(add), err)
		return err
	}
	logger.ProxyInfo("Background: installed %d directives (global enabled %t)", len(add), b.globalEnabled)
	return nil
}

func (b *Background) handleChanges(changes models.StorageChanges) {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed := false
	if c, ok := changes[models.RulesKey]; ok {
		if rules, ok := c.NewValue.([]models.Rule); ok {
			b.rules = rules
			changed = true
		}
	}
	if c, ok := changes[models.GlobalEnabledKey]; ok {
		if enabled, ok := c.NewValue.(bool); ok {
			b.globalEnabled = enabled
			changed = true
		}
	}
	if changed {
		b.applyLocked()
	}
}

// Status summarizes the stored rules against what is installed.
func (b *Background) Status() models.StatusResponse {
	b.mu.Lock()
	rules, enabled := b.rules, b.globalEnabled
	b.mu.Unlock()
	return BuildStatus(rules, enabled, len(b.engine.GetDynamicRules()))
}

// BuildStatus renders the popup summary for rules.
func BuildStatus(rules []models.Rule, globalEnabled bool, installed int) models.StatusResponse {
	enabledCount := models.CountEnabled(rules)
	icon := "inactive"
	if globalEnabled {
		icon = "active"
	}
	return models.StatusResponse{
		Enabled:       enabledCount,
		Total:         len(rules),
		Summary:       fmt.Sprintf("%d of %d", enabledCount, len(rules)),
		GlobalEnabled: globalEnabled,
		Icon:          icon,
		Installed:     installed,
	}
}
