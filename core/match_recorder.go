package core

import (
	"context"
	"sync"
	"time"

	"redirectly/logger"
	"redirectly/models"
)

// MatchRecorderConfig controls the persisted match log.
type MatchRecorderConfig struct {
	BufferSize    int
	MaxEntries    int
	PruneInterval time.Duration
}

// MatchSink persists one match.
type MatchSink func(models.MatchInfo) error

// MatchPruner trims the persisted log down to keep entries.
type MatchPruner func(keep int) (int64, error)

// MatchRecorder writes engine matches to a sink off the request path. When
// the buffer is full new matches are dropped rather than stalling the proxy.
type MatchRecorder struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	conf    MatchRecorderConfig
	sink    MatchSink
	prune   MatchPruner
	queue   chan models.MatchInfo
	metrics *Metrics

	mu      sync.Mutex
	running bool
	dropped int64
}

// NewMatchRecorder creates a recorder. prune and metrics may be nil.
func NewMatchRecorder(appCtx context.Context, conf MatchRecorderConfig, sink MatchSink, prune MatchPruner, metrics *Metrics) *MatchRecorder {
	if conf.BufferSize < 1 {
		conf.BufferSize = 256
	}
	if conf.PruneInterval < time.Second {
		conf.PruneInterval = time.Minute
	}
	ctx, cancel := context.WithCancel(appCtx)
	return &MatchRecorder{
		ctx:     ctx,
		cancel:  cancel,
		conf:    conf,
		sink:    sink,
		prune:   prune,
		queue:   make(chan models.MatchInfo, conf.BufferSize),
		metrics: metrics,
	}
}

// Record queues info for persistence. It never blocks; it has the signature
// Engine.OnRuleMatched expects.
func (r *MatchRecorder) Record(info models.MatchInfo) {
	select {
	case r.queue <- info:
	default:
		r.mu.Lock()
		r.dropped++
		dropped := r.dropped
		r.mu.Unlock()
		if r.metrics != nil {
			r.metrics.MatchesDropped.Inc()
		}
		if dropped == 1 || dropped%1000 == 0 {
			logger.Warn("MatchRecorder: queue full, %d matches dropped so far", dropped)
		}
	}
}

// Start begins draining the queue.
func (r *MatchRecorder) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		logger.Warn("MatchRecorder is already running.")
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()
		}()

		ticker := time.NewTicker(r.conf.PruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				r.drain()
				return
			case info := <-r.queue:
				r.write(info)
			case <-ticker.C:
				r.pruneNow()
			}
		}
	}()
}

// Stop flushes queued matches and waits for the writer to exit.
func (r *MatchRecorder) Stop() {
	r.cancel()
	r.wg.Wait()
}

// Dropped returns how many matches were discarded because the queue was full.
func (r *MatchRecorder) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *MatchRecorder) drain() {
	for {
		select {
		case info := <-r.queue:
			r.write(info)
		default:
			return
		}
	}
}

func (r *MatchRecorder) write(info models.MatchInfo) {
	if err := r.sink(info); err != nil {
		logger.Error("MatchRecorder: failed to record match of directive %d on %s: %v", info.RuleID, info.URL, err)
	}
}

func (r *MatchRecorder) pruneNow() {
	if r.prune == nil || r.conf.MaxEntries < 1 {
		return
	}
	removed, err := r.prune(r.conf.MaxEntries)
	if err != nil {
		logger.Error("MatchRecorder: prune failed: %v", err)
		return
	}
	if removed > 0 {
		logger.Debug("MatchRecorder: pruned %d old matches", removed)
	}
}
