package sqsstatus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vvatanabe/sqsstatus/internal/clock"
)

const metricsNamespace = "sqs_status"

// NewMetricsRegistry returns a registry holding one snapshot of the given statuses.
func NewMetricsRegistry(statuses []QueueStatus, now time.Time) *prometheus.Registry {
	messages := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "queue_messages",
		Help:      "Approximate number of messages in the queue by state.",
	}, []string{"queue", "state"})
	isDeadLetter := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "queue_is_dead_letter",
		Help:      "1 if another queue redrives failed messages into the queue.",
	}, []string{"queue"})
	queues := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "queues",
		Help:      "Number of queues found.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the run that produced these metrics.",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(messages, isDeadLetter, queues, lastRun)

	for _, row := range NewReport(statuses, true).Rows() {
		for state, count := range map[string]string{
			"available":   row.Available,
			"delayed":     row.Delayed,
			"not_visible": row.NotVisible,
		} {
			v, err := strconv.ParseFloat(count, 64)
			if err != nil {
				continue
			}
			messages.WithLabelValues(row.Name, state).Set(v)
		}
		var dlq float64
		if row.IsDeadLetterQueue {
			dlq = 1
		}
		isDeadLetter.WithLabelValues(row.Name).Set(dlq)
	}
	queues.Set(float64(len(statuses)))
	lastRun.Set(clock.UnixSeconds(now))
	return reg
}

// WriteMetricsFile writes the metrics of the given statuses to path in the
// node exporter textfile collector format. The file is replaced atomically.
func WriteMetricsFile(path string, statuses []QueueStatus, now time.Time) error {
	return prometheus.WriteToTextfile(path, NewMetricsRegistry(statuses, now))
}
