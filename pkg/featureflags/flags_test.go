package featureflags

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugEndpoint_DisabledByDefault(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	// Should be disabled when env var not set
	assert.False(t, manager.IsEnabled(ctx, DebugEndpoint))
}

func TestDebugEndpoint_EnabledWhenFlagSet(t *testing.T) {
	t.Setenv("TEST_FEATURE_DEBUG_ENDPOINT", "true")

	manager := NewEnvManager("TEST_FEATURE_")

	assert.True(t, manager.IsEnabled(context.Background(), DebugEndpoint))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"ENABLED", "ENABLED", true},
		{"on padded", " on ", true},
		{"false", "false", false},
		{"0", "0", false},
		{"off", "off", false},
		{"empty", "", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLAG", tt.value)

			manager := NewEnvManager("TEST_")

			assert.Equal(t, tt.expected, manager.IsEnabled(context.Background(), "FLAG"))
		})
	}
}

func TestEnvManager_OverrideTakesPrecedence(t *testing.T) {
	t.Setenv("FEATURE_SHOP_AGGREGATES", "true")

	manager := NewEnvManager("")
	ctx := context.Background()
	assert.True(t, manager.IsEnabled(ctx, ShopAggregates))

	manager.SetEnabled(ShopAggregates, false)
	assert.False(t, manager.IsEnabled(ctx, ShopAggregates))
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	t.Setenv("X_METRICS_ENABLED", "1")

	flags := NewEnvManager("X_").GetAllFlags()

	assert.Len(t, flags, len(AllFlags))
	assert.True(t, flags[MetricsEnabled])
	assert.True(t, flags[RateLimitEnabled])
	assert.False(t, flags[DebugEndpoint])
}

func TestEnvManager_Defaults(t *testing.T) {
	manager := NewEnvManager("UNSET_")
	ctx := context.Background()

	for flag, want := range Defaults {
		assert.Equal(t, want, manager.IsEnabled(ctx, flag), string(flag))
	}
}

func TestEnvManager_ExplicitFalseBeatsDefault(t *testing.T) {
	t.Setenv("FEATURE_RATE_LIMIT_ENABLED", "off")

	manager := NewEnvManager("")

	assert.False(t, manager.IsEnabled(context.Background(), RateLimitEnabled))
	assert.Equal(t, "FEATURE_RATE_LIMIT_ENABLED", manager.EnvKey(RateLimitEnabled))
}

func TestEnvManager_UnrecognisedValueKeepsDefault(t *testing.T) {
	t.Setenv("FEATURE_METRICS_ENABLED", "maybe")

	assert.True(t, NewEnvManager("").IsEnabled(context.Background(), MetricsEnabled))
}

func TestStaticManager(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{
		DebugEndpoint:  true,
		MetricsEnabled: false,
	})
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, DebugEndpoint))
	assert.False(t, manager.IsEnabled(ctx, MetricsEnabled))
	assert.False(t, manager.IsEnabled(ctx, ShopAggregates))

	manager.SetEnabled(ShopAggregates, true)
	assert.True(t, manager.IsEnabled(ctx, ShopAggregates))

	all := manager.GetAllFlags()
	all[DebugEndpoint] = false
	assert.True(t, manager.IsEnabled(ctx, DebugEndpoint), "GetAllFlags returns a copy")
}

func TestContextIntegration(t *testing.T) {
	ctx := WithManager(context.Background(), NewStaticManager(map[FeatureFlag]bool{DebugEndpoint: true}))

	assert.True(t, IsEnabled(ctx, DebugEndpoint))
	assert.False(t, IsEnabled(ctx, RateLimitEnabled))
}

func TestFromContext_DefaultManager(t *testing.T) {
	ctx := context.Background()

	assert.False(t, IsEnabled(ctx, DebugEndpoint))
	assert.False(t, IsEnabled(ctx, MetricsEnabled))
}

func TestConcurrentAccess(t *testing.T) {
	manager := NewEnvManager("CONCURRENT_")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				manager.SetEnabled(DebugEndpoint, j%2 == 0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = manager.IsEnabled(ctx, DebugEndpoint)
			}
		}()
	}
	wg.Wait()
}

func TestFeatureFlagNames(t *testing.T) {
	assert.Equal(t, FeatureFlag("debug_endpoint"), DebugEndpoint)
	assert.Equal(t, FeatureFlag("metrics_enabled"), MetricsEnabled)
	assert.Equal(t, FeatureFlag("rate_limit_enabled"), RateLimitEnabled)
	assert.Equal(t, FeatureFlag("shop_aggregates"), ShopAggregates)
}
