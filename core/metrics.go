package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the counters and gauges the engine and proxy report.
type Metrics struct {
	RuleMatches         *prometheus.CounterVec
	DirectiveUpdates    *prometheus.CounterVec
	InstalledDirectives prometheus.Gauge
	SharedRulesImported prometheus.Counter
	MatchesDropped      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RuleMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redirectly_rule_matches_total",
				Help: "Requests matched by an installed directive, by action type",
			},
			[]string{"action"},
		),
		DirectiveUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redirectly_directive_updates_total",
				Help: "Directive batch updates, by result (applied or rejected)",
			},
			[]string{"result"},
		),
		InstalledDirectives: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "redirectly_installed_directives",
				Help: "Number of directives currently installed in the engine",
			},
		),
		SharedRulesImported: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "redirectly_shared_rules_imported_total",
				Help: "Rules imported from share links",
			},
		),
		MatchesDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "redirectly_match_log_dropped_total",
				Help: "Matches not written to the match log because its queue was full",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.RuleMatches, m.DirectiveUpdates, m.InstalledDirectives, m.SharedRulesImported, m.MatchesDropped)
	}
	return m
}
