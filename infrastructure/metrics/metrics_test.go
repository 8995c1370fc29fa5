package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHealth struct {
	status domain.CacheStatus
}

func (s staticHealth) Status(context.Context) domain.CacheStatus {
	return s.status
}

func TestRecorder_StrategyAttempts(t *testing.T) {
	r := NewRecorder()

	r.StrategyAttempt("graphql_v5", "soft_failure", 20*time.Millisecond)
	r.StrategyAttempt("graphql_v5", "soft_failure", 30*time.Millisecond)
	r.StrategyAttempt("markup", "success", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.strategyAttempts.WithLabelValues("graphql_v5", "soft_failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.strategyAttempts.WithLabelValues("markup", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.strategyDuration))
}

func TestRecorder_CacheLookups(t *testing.T) {
	r := NewRecorder()

	r.CacheLookup(true)
	r.CacheLookup(false)
	r.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))
}

func TestRecorder_EventsDropped(t *testing.T) {
	r := NewRecorder()

	r.EventDropped("buffer_full")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.eventsDropped.WithLabelValues("buffer_full")))
}

func TestRecorder_HandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.WatchCache(staticHealth{status: domain.CacheStatus{Reachable: true, Backend: "redis", Keys: 7, MemoryBytes: 2048}})
	r.PipelineCompleted("graphql_v5", 150*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `tokped_cache_reachable{backend="redis"} 1`)
	assert.Contains(t, text, `tokped_cache_keys{backend="redis"} 7`)
	assert.Contains(t, text, `tokped_pipeline_duration_seconds_count{strategy="graphql_v5"} 1`)
}
