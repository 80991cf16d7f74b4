package metrics

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// EnvClientLatencyBuckets represents an environment variable, which is formatted like "0.1,0.2,0.3" as string (seconds)
	EnvClientLatencyBuckets = "DESK_CLIENT_LATENCY_BUCKETS"
	RequestsCollectorName   = "client_requests_total"
	LatencyCollectorName    = "client_request_duration_seconds"
)

var (
	bucketsConfig = []float64{0.05, 0.1, 0.3, 0.5, 1, 5}
)

var clientRequestsMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: desk,
		Name:      RequestsCollectorName,
		Help:      "Number of HTTP requests sent to the remote service partitioned by status code and method.",
	}, []string{"code", "method"})

var clientLatencyMetric = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Subsystem: desk,
	Name:      LatencyCollectorName,
	Help:      "Time spent on requests to the remote service partitioned by status code and method.",
	Buckets:   latencyBuckets(),
}, []string{"code", "method"})

func latencyBuckets() []float64 {
	conf, ok := os.LookupEnv(EnvClientLatencyBuckets)
	if !ok {
		return bucketsConfig
	}
	var buckets []float64
	for _, v := range strings.Split(conf, ",") {
		f64v, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			panic(err)
		}
		buckets = append(buckets, f64v)
	}
	return buckets
}

// InstrumentTransport counts and times every call made through next.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperCounter(clientRequestsMetric,
		promhttp.InstrumentRoundTripperDuration(clientLatencyMetric, next))
}
