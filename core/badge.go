package core

import (
	"sort"
	"sync"

	"redirectly/models"
)

const (
	BadgeText  = "on"
	BadgeColor = "#05e70d"
)

// BadgeBoard tracks the per-tab "a rule matched here" indicator. A badge is
// set when a directive matches a request of the tab and cleared when the tab
// commits a new top-level navigation.
type BadgeBoard struct {
	mu     sync.RWMutex
	badges map[string]models.Badge
}

func NewBadgeBoard() *BadgeBoard {
	return &BadgeBoard{badges: map[string]models.Badge{}}
}

// RuleMatched is an Engine.OnRuleMatched listener.
func (b *BadgeBoard) RuleMatched(info models.MatchInfo) {
	b.mu.Lock()
	b.badges[info.TabID] = models.Badge{TabID: info.TabID, Text: BadgeText, Color: BadgeColor}
	b.mu.Unlock()
}

// NavigationCommitted clears the badge of tabID.
func (b *BadgeBoard) NavigationCommitted(tabID string) {
	b.mu.Lock()
	delete(b.badges, tabID)
	b.mu.Unlock()
}

// Get returns the badge of tabID. A tab without a badge gets an empty text.
func (b *BadgeBoard) Get(tabID string) models.Badge {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if badge, ok := b.badges[tabID]; ok {
		return badge
	}
	return models.Badge{TabID: tabID}
}

// All returns the set badges ordered by tab id.
func (b *BadgeBoard) All() []models.Badge {
	b.mu.RLock()
	out := make([]models.Badge, 0, len(b.badges))
	for _, badge := range b.badges {
		out = append(out, badge)
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].TabID < out[j].TabID })
	return out
}
