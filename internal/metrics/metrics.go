package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the sync-layer counters behind one prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	ReconcileApplied prometheus.Counter
	ReconcileStale   prometheus.Counter
	CreatesFailed    prometheus.Counter
	RefreshTotal     prometheus.Counter

	ViewsRecorded    prometheus.Counter
	LikesToggled     prometheus.Counter
	CommentsApplied  prometheus.Counter
	CommentsQueued   prometheus.Counter
	CommentsReplayed prometheus.Counter

	UpstreamLatency prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	applied := prometheus.NewCounter(prometheus.CounterOpts{Name: "sync_reconcile_applied_total"})
	stale := prometheus.NewCounter(prometheus.CounterOpts{Name: "sync_reconcile_stale_dropped_total"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{Name: "sync_creates_failed_total"})
	refresh := prometheus.NewCounter(prometheus.CounterOpts{Name: "sync_refresh_total"})

	views := prometheus.NewCounter(prometheus.CounterOpts{Name: "engagement_views_recorded_total"})
	likes := prometheus.NewCounter(prometheus.CounterOpts{Name: "engagement_likes_toggled_total"})
	comments := prometheus.NewCounter(prometheus.CounterOpts{Name: "engagement_comments_applied_total"})
	queued := prometheus.NewCounter(prometheus.CounterOpts{Name: "engagement_comments_queued_total"})
	replayed := prometheus.NewCounter(prometheus.CounterOpts{Name: "engagement_comments_replayed_total"})

	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "upstream_request_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(applied, stale, failed, refresh, views, likes, comments, queued, replayed, latency)
	return &Registry{
		reg:              r,
		ReconcileApplied: applied,
		ReconcileStale:   stale,
		CreatesFailed:    failed,
		RefreshTotal:     refresh,
		ViewsRecorded:    views,
		LikesToggled:     likes,
		CommentsApplied:  comments,
		CommentsQueued:   queued,
		CommentsReplayed: replayed,
		UpstreamLatency:  latency,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
