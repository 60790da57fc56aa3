package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceType(t *testing.T) {
	tests := []struct {
		input string
		want  ResourceType
		ok    bool
	}{
		{"agents", ResourceTypeAgents, true},
		{"policies", ResourceTypePolicies, true},
		{"metrics", ResourceTypeMetrics, true},
		{"aiHelper", ResourceTypeAIHelper, true},
		{"aihelper", "", false},
		{"", "", false},
		{"widgets", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseResourceType(tt.input)
			if !tt.ok {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResourceTypeIsDaily(t *testing.T) {
	assert.True(t, ResourceTypeAIHelper.IsDaily())
	assert.False(t, ResourceTypeAgents.IsDaily())
	assert.False(t, ResourceTypePolicies.IsDaily())
	assert.False(t, ResourceTypeMetrics.IsDaily())
}

func TestUsageCounterCurrent(t *testing.T) {
	counter := NewUsageCounter(uuid.New())
	counter.Agents = 3
	counter.Policies = 2
	counter.Metrics = 5
	counter.AIHelperToday = 4

	assert.Equal(t, 3, counter.Current(ResourceTypeAgents))
	assert.Equal(t, 2, counter.Current(ResourceTypePolicies))
	assert.Equal(t, 5, counter.Current(ResourceTypeMetrics))
	assert.Equal(t, 4, counter.Current(ResourceTypeAIHelper))
	assert.Equal(t, 0, counter.Current(ResourceType("unknown")))
}

func TestResetDailyIfStale(t *testing.T) {
	t.Run("no reset on same calendar day", func(t *testing.T) {
		counter := NewUsageCounter(uuid.New())
		counter.AIHelperToday = 5
		counter.LastResetAt = time.Date(2026, 3, 10, 0, 5, 0, 0, time.Local)

		reset := counter.ResetDailyIfStale(time.Date(2026, 3, 10, 23, 55, 0, 0, time.Local))

		assert.False(t, reset)
		assert.Equal(t, 5, counter.AIHelperToday)
	})

	t.Run("resets across midnight even within 24h", func(t *testing.T) {
		counter := NewUsageCounter(uuid.New())
		counter.AIHelperToday = 5
		counter.LastResetAt = time.Date(2026, 3, 10, 23, 55, 0, 0, time.Local)

		now := time.Date(2026, 3, 11, 0, 5, 0, 0, time.Local)
		reset := counter.ResetDailyIfStale(now)

		assert.True(t, reset)
		assert.Equal(t, 0, counter.AIHelperToday)
		assert.Equal(t, now, counter.LastResetAt)
	})

	t.Run("resets after many stale days", func(t *testing.T) {
		counter := NewUsageCounter(uuid.New())
		counter.AIHelperToday = 5
		counter.LastResetAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

		reset := counter.ResetDailyIfStale(time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local))

		assert.True(t, reset)
		assert.Equal(t, 0, counter.AIHelperToday)
	})

	t.Run("only daily counter is zeroed", func(t *testing.T) {
		counter := NewUsageCounter(uuid.New())
		counter.Agents = 2
		counter.AIHelperToday = 5
		counter.LastResetAt = time.Date(2026, 3, 9, 12, 0, 0, 0, time.Local)

		counter.ResetDailyIfStale(time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local))

		assert.Equal(t, 2, counter.Agents)
		assert.Equal(t, 0, counter.AIHelperToday)
	})
}
