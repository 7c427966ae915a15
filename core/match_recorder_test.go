package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"redirectly/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkRecorder struct {
	mu    sync.Mutex
	got   []models.MatchInfo
	block chan struct{}
	fail  bool
}

func (s *sinkRecorder) sink(info models.MatchInfo) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, info)
	if s.fail {
		return errors.New("disk full")
	}
	return nil
}

func (s *sinkRecorder) requestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.got))
	for _, info := range s.got {
		ids = append(ids, info.RequestID)
	}
	return ids
}

func TestMatchRecorderPersistsEngineMatches(t *testing.T) {
	s := &sinkRecorder{}
	rec := NewMatchRecorder(context.Background(), MatchRecorderConfig{}, s.sink, nil, nil)
	rec.Start()

	e := NewEngine(nil)
	e.OnRuleMatched(rec.Record)
	require.NoError(t, e.UpdateDynamicRules(nil, BuildDirectives([]models.Rule{
		redirectRule("r", "https://a.com/*", "https://b.com/*", true),
	}, true)))

	_, ok := e.Evaluate(Request{URL: "https://a.com/x", Type: models.ResourceScript, RequestID: "r1"})
	require.True(t, ok)
	_, ok = e.Evaluate(Request{URL: "https://a.com/y", Type: models.ResourceScript, RequestID: "r2"})
	require.True(t, ok)

	rec.Stop()
	assert.Equal(t, []string{"r1", "r2"}, s.requestIDs())
	s.mu.Lock()
	assert.Equal(t, "https://b.com/x", s.got[0].RedirectURL)
	assert.Equal(t, models.ActionRedirect, s.got[0].Action)
	s.mu.Unlock()
}

func TestMatchRecorderDropsWhenFull(t *testing.T) {
	s := &sinkRecorder{block: make(chan struct{})}
	metrics := NewMetrics(prometheus.NewRegistry())
	rec := NewMatchRecorder(context.Background(), MatchRecorderConfig{BufferSize: 1}, s.sink, nil, metrics)

	// Not started: the single buffer slot fills and the rest are dropped.
	rec.Record(models.MatchInfo{RequestID: "kept"})
	rec.Record(models.MatchInfo{RequestID: "dropped-1"})
	rec.Record(models.MatchInfo{RequestID: "dropped-2"})
	assert.Equal(t, int64(2), rec.Dropped())
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.MatchesDropped))

	close(s.block)
	rec.Start()
	rec.Stop()
	assert.Equal(t, []string{"kept"}, s.requestIDs())
}

func TestMatchRecorderSurvivesSinkErrorsAndPrunes(t *testing.T) {
	s := &sinkRecorder{fail: true}
	pruned := make(chan int, 4)
	prune := func(keep int) (int64, error) {
		pruned <- keep
		return 0, nil
	}
	rec := NewMatchRecorder(context.Background(), MatchRecorderConfig{MaxEntries: 10, PruneInterval: time.Second}, s.sink, prune, nil)
	rec.Start()
	rec.Record(models.MatchInfo{RequestID: "a"})
	rec.Record(models.MatchInfo{RequestID: "b"})

	select {
	case keep := <-pruned:
		assert.Equal(t, 10, keep)
	case <-time.After(5 * time.Second):
		t.Fatal("prune was not called")
	}
	rec.Stop()
	assert.Equal(t, []string{"a", "b"}, s.requestIDs())
}
