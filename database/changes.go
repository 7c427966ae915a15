package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"redirectly/logger"
	"redirectly/models"
)

// ChangeListener receives the keys that changed after a write commits.
type ChangeListener func(models.StorageChanges)

var (
	// deliverMu serializes diffing and delivery, so listeners see
	// notifications one at a time and never an older state after a newer one.
	deliverMu sync.Mutex

	changeMu  sync.Mutex
	listeners = map[int]ChangeListener{}
	nextID    int
	// known holds the last value published per key, so that a write seen
	// twice (in-process and through the external watcher) notifies once.
	known = map[string]interface{}{}
)

// Subscribe registers fn for change notifications. The returned func removes it.
// Listeners run one at a time and must not write to storage.
func Subscribe(fn ChangeListener) func() {
	changeMu.Lock()
	id := nextID
	nextID++
	listeners[id] = fn
	changeMu.Unlock()
	return func() {
		changeMu.Lock()
		delete(listeners, id)
		changeMu.Unlock()
	}
}

func resetSnapshot() {
	changeMu.Lock()
	known = map[string]interface{}{}
	changeMu.Unlock()
}

// publishKey notifies listeners after a write to key. The value published is
// re-read from the database, so a writer that reaches this point late cannot
// announce a state older than the one committed after it. written is used
// only when that read fails.
func publishKey(key string, written interface{}) {
	deliverMu.Lock()
	defer deliverMu.Unlock()

	value, err := loadKey(key)
	if err != nil {
		logger.Error("publishKey: re-reading %s: %v", key, err)
		value = written
	}
	publish(map[string]interface{}{key: value})
}

func loadKey(key string) (interface{}, error) {
	switch key {
	case models.RulesKey:
		return GetRules()
	case models.GlobalEnabledKey:
		return GetGlobalEnabled()
	case models.SortByKey:
		return GetSortPreference()
	}
	return nil, fmt.Errorf("unknown storage key %q", key)
}

// publish diffs values against the last published state and notifies
// listeners of the keys that differ. Callers hold deliverMu.
func publish(values map[string]interface{}) {
	changeMu.Lock()
	changes := models.StorageChanges{}
	for key, newValue := range values {
		oldValue, seen := known[key]
		if seen && reflect.DeepEqual(oldValue, newValue) {
			continue
		}
		known[key] = newValue
		changes[key] = models.StorageChange{OldValue: oldValue, NewValue: newValue}
	}
	ids := make([]int, 0, len(listeners))
	for id := range listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]ChangeListener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, listeners[id])
	}
	changeMu.Unlock()

	if len(changes) == 0 {
		return
	}
	for _, fn := range fns {
		fn(changes)
	}
}

// PrimeSnapshot records the current persisted state as already published, so
// the first external poll does not report everything as new.
func PrimeSnapshot() (models.Snapshot, error) {
	deliverMu.Lock()
	defer deliverMu.Unlock()

	snap, err := LoadSnapshot()
	if err != nil {
		return snap, err
	}
	changeMu.Lock()
	known[models.RulesKey] = cloneRules(snap.Rules)
	known[models.GlobalEnabledKey] = snap.GlobalEnabled
	known[models.SortByKey] = snap.SortBy
	changeMu.Unlock()
	return snap, nil
}

// WatchExternalChanges polls SQLite's data_version on a dedicated connection
// and publishes changes committed by other processes (for example the CLI
// editing rules while the server runs). It returns when ctx is done.
func WatchExternalChanges(ctx context.Context, interval time.Duration) error {
	conn, err := DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("opening watcher connection: %w", err)
	}
	defer conn.Close()

	var lastVersion int64
	if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&lastVersion); err != nil {
		return fmt.Errorf("reading data_version: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		var version int64
		if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&version); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("WatchExternalChanges: reading data_version: %v", err)
			continue
		}
		if version == lastVersion {
			continue
		}
		lastVersion = version

		if err := republish(); err != nil {
			logger.Error("WatchExternalChanges: reloading state: %v", err)
			continue
		}
		logger.Debug("WatchExternalChanges: data_version %d, republished state", version)
	}
}

func republish() error {
	deliverMu.Lock()
	defer deliverMu.Unlock()

	snap, err := LoadSnapshot()
	if err != nil {
		return err
	}
	publish(map[string]interface{}{
		models.RulesKey:         snap.Rules,
		models.GlobalEnabledKey: snap.GlobalEnabled,
		models.SortByKey:        snap.SortBy,
	})
	return nil
}
