package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds chat pipeline counters exposed on /metrics.
type Metrics struct {
	RepliesTotal       *prometheus.CounterVec
	SelectedEntries    prometheus.Histogram
	KeywordFailures    prometheus.Counter
	MergeConflicts     prometheus.Counter
	ProfileSaveFailure prometheus.Counter
}

// NewMetrics registers the chat metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RepliesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chatd_replies_total",
			Help: "Chat replies generated, labeled by agent and outcome.",
		}, []string{"agent", "outcome"}),
		SelectedEntries: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatd_selected_entries",
			Help:    "Knowledge entries selected per reply (0-3).",
			Buckets: []float64{0, 1, 2, 3},
		}),
		KeywordFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatd_keyword_extraction_failures_total",
			Help: "Keyword extraction calls that failed and degraded to no keywords.",
		}),
		MergeConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatd_profile_merge_conflicts_total",
			Help: "Optimistic concurrency conflicts hit while saving profiles.",
		}),
		ProfileSaveFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "chatd_profile_save_failures_total",
			Help: "Profile updates abandoned after exhausting save retries.",
		}),
	}
}
