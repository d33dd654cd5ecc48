package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	installChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopify_app",
			Subsystem: "install",
			Name:      "checks_total",
			Help:      "Install validation outcomes for page loads.",
		},
		[]string{"outcome"},
	)

	oauthCallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopify_app",
			Subsystem: "oauth",
			Name:      "callbacks_total",
			Help:      "OAuth callback results.",
		},
		[]string{"result"},
	)

	webhooks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopify_app",
			Subsystem: "webhooks",
			Name:      "received_total",
			Help:      "Inbound webhooks by topic and result.",
		},
		[]string{"topic", "result"},
	)

	remoteCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopify_app",
			Subsystem: "shopify",
			Name:      "api_calls_total",
			Help:      "Calls to the Shopify Admin API by operation and result.",
		},
		[]string{"operation", "result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		installChecks,
		oauthCallbacks,
		webhooks,
		remoteCalls,
	)
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordInstallCheck counts an install validation outcome (allow, redirect, error)
func RecordInstallCheck(outcome string) {
	installChecks.WithLabelValues(outcome).Inc()
}

// RecordOAuthCallback counts an OAuth callback result
func RecordOAuthCallback(result string) {
	oauthCallbacks.WithLabelValues(result).Inc()
}

// RecordWebhook counts an inbound webhook
func RecordWebhook(topic, result string) {
	webhooks.WithLabelValues(topic, result).Inc()
}

// RecordRemoteCall counts a Shopify Admin API call
func RecordRemoteCall(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	remoteCalls.WithLabelValues(operation, result).Inc()
}
