// ABOUTME: Feature flag middleware makes the flag manager available to handlers
// ABOUTME: Handlers read it back with featureflags.FromContext

package middleware

import (
	"net/http"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/pkg/featureflags"
)

// FeatureFlagsMiddleware stores the manager in every request context
func FeatureFlagsMiddleware(manager featureflags.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(featureflags.WithManager(r.Context(), manager)))
		})
	}
}
