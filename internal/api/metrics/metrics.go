// Package metrics defines and registers the custom Prometheus metrics of the
// user directory. Metrics are registered with the default registry on package
// initialisation and exposed by the /metrics route.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/user-directory/internal/core/ports"
)

const namespace = "directory"

// LoginsTotal counts login attempts.
// Label:
//   - outcome: success, user_not_found, incorrect_password or error
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SignupsTotal counts sign-up attempts.
// Label:
//   - outcome: success, user_exists or error
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of sign-up attempts, by outcome.",
	},
	[]string{"outcome"},
)

// CacheLoadsTotal counts remote fetches issued to populate the cache.
// Label:
//   - result: "ok" or "error"
var CacheLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_loads_total",
		Help:      "Total number of remote fetches performed to populate the directory cache.",
	},
	[]string{"result"},
)

// CacheRecords tracks the number of records held in the directory cache.
var CacheRecords = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_records",
		Help:      "Number of user records currently held in the directory cache.",
	},
)

// RemoteCallDuration measures remote store calls.
// Label:
//   - op: "fetch_all" or "create"
var RemoteCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_call_duration_seconds",
		Help:      "Duration of calls to the remote directory store.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// Recorder reports directory activity to the metrics above.
type Recorder struct{}

var _ ports.DirectoryMetrics = Recorder{}

func (Recorder) Login(outcome string) {
	LoginsTotal.WithLabelValues(outcome).Inc()
}

func (Recorder) Signup(outcome string) {
	SignupsTotal.WithLabelValues(outcome).Inc()
}

func (Recorder) CacheLoad(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CacheLoadsTotal.WithLabelValues(result).Inc()
}

func (Recorder) CacheSize(records int) {
	CacheRecords.Set(float64(records))
}

func (Recorder) RemoteCall(op string, d time.Duration) {
	RemoteCallDuration.WithLabelValues(op).Observe(d.Seconds())
}
