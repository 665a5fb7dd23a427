package monitoring

import (
	"context"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	responsesMerged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_responses_merged_total",
			Help: "Total response submissions merged into an event",
		},
		[]string{"event"},
	)

	mergeConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_merge_conflicts_total",
			Help: "Total merge saves lost to a concurrent writer",
		},
		[]string{"event"},
	)

	finalizeAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_finalize_attempts_total",
			Help: "Total finalize attempts by outcome",
		},
		[]string{"outcome"},
	)

	eventsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "events_by_status",
			Help: "Current number of events per status",
		},
		[]string{"status"},
	)

	openEventsMirror = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "open_events_mirror_size",
			Help: "Size of the Redis open-events mirror set",
		},
	)

	mailQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mail_queue_depth",
			Help: "Messages currently waiting in the outbound mail queue",
		},
	)

	mailOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_outcomes_total",
			Help: "Outbound mail attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func TrackResponseMerged(eventUUID string) {
	responsesMerged.WithLabelValues(eventUUID).Inc()
}

func TrackMergeConflict(eventUUID string) {
	mergeConflicts.WithLabelValues(eventUUID).Inc()
}

// TrackFinalize records a finalize attempt: finalized, rejected or conflict.
func TrackFinalize(outcome string) {
	finalizeAttempts.WithLabelValues(outcome).Inc()
}

func SetMailQueueDepth(depth int) {
	mailQueueDepth.Set(float64(depth))
}

// TrackMail records an outbound mail outcome: sent, error or dropped.
func TrackMail(outcome string) {
	mailOutcomes.WithLabelValues(outcome).Inc()
}

// Monitor periodically samples event-status counts from the store and the
// open-events mirror from Redis.
type Monitor struct {
	app   core.App
	redis *redis.Client
}

func NewMonitor(app core.App, redisClient *redis.Client) *Monitor {
	return &Monitor{app: app, redis: redisClient}
}

func (m *Monitor) Collect(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectEventMetrics()
			m.collectMirrorMetrics(ctx)
		}
	}
}

func (m *Monitor) collectEventMetrics() {
	var rows []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}
	err := m.app.DB().
		NewQuery("SELECT status, COUNT(*) AS total FROM events GROUP BY status").
		All(&rows)
	if err != nil {
		m.app.Logger().Warn("metrics: event status sampling failed", "error", err)
		return
	}

	for _, known := range []string{"open", "closed", "finalized"} {
		eventsByStatus.WithLabelValues(known).Set(0)
	}
	for _, row := range rows {
		eventsByStatus.WithLabelValues(row.Status).Set(float64(row.Total))
	}
}

func (m *Monitor) collectMirrorMetrics(ctx context.Context) {
	if m.redis == nil {
		return
	}
	size, err := m.redis.SCard(ctx, "open_events").Result()
	if err != nil {
		return
	}
	openEventsMirror.Set(float64(size))
}
