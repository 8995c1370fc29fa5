// ABOUTME: Metrics endpoint gate for the Prometheus handler
// ABOUTME: Mounted directly on the router since the exposition format is not JSON

package handlers

import (
	"net/http"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/featureflags"
)

// MetricsHandler serves metrics only while the metrics flag is enabled
func MetricsHandler(metrics http.Handler, flags featureflags.Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if metrics == nil || !flagEnabled(r.Context(), flags, featureflags.MetricsEnabled) {
			http.NotFound(w, r)
			return
		}
		metrics.ServeHTTP(w, r)
	})
}
