package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	trigger := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want Outcome
	}{
		{name: "days before", now: date(2024, 6, 1), want: Pending},
		{name: "previous evening", now: time.Date(2024, 6, 2, 23, 59, 59, 0, time.UTC), want: Pending},
		{name: "exact trigger time", now: trigger, want: Due},
		{name: "resumed a bit late", now: trigger.Add(3 * time.Minute), want: Due},
		{name: "end of trigger day", now: time.Date(2024, 6, 3, 23, 59, 59, 0, time.UTC), want: Due},
		{name: "missed wake-up", now: date(2024, 6, 4), want: Elapsed},
		{name: "long past", now: date(2024, 7, 1), want: Elapsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(trigger, tt.now, time.UTC))
		})
	}
}

func TestEvaluate_SameDayLaterTriggerIsDue(t *testing.T) {
	trigger := time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, Due, Evaluate(trigger, now, time.UTC))
}

func TestEvaluate_UsesLocationCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)

	// 触发时刻为 UTC 的 06-02，UTC+8 的 06-03
	trigger := time.Date(2024, 6, 3, 7, 0, 0, 0, loc)
	// 当前时刻为 UTC 的 06-03，UTC+8 的 06-03
	now := time.Date(2024, 6, 3, 0, 30, 0, 0, time.UTC)

	assert.Equal(t, Due, Evaluate(trigger, now, loc))
	assert.Equal(t, Elapsed, Evaluate(trigger, now, time.UTC))
}

func TestEvaluate_LocationCanDeferTrigger(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)

	// 触发时刻为 UTC 的 06-02，UTC+8 的 06-03
	trigger := time.Date(2024, 6, 3, 0, 0, 0, 0, loc)
	// 当前时刻在两个时区都是 06-02
	now := time.Date(2024, 6, 2, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, Pending, Evaluate(trigger, now, loc))
	assert.Equal(t, Due, Evaluate(trigger, now, time.UTC))
}

func TestEvaluate_NilLocationDefaultsToUTC(t *testing.T) {
	assert.Equal(t, Due, Evaluate(date(2024, 6, 3), date(2024, 6, 3).Add(time.Hour), nil))
}

// 三种结果互斥且完备，并与日期大小关系一一对应
func TestEvaluate_ExhaustiveByDate(t *testing.T) {
	base := date(2024, 1, 1)
	for triggerOffset := 0; triggerOffset < 10; triggerOffset++ {
		for nowOffset := 0; nowOffset < 10; nowOffset++ {
			trigger := base.AddDate(0, 0, triggerOffset).Add(time.Duration(triggerOffset) * time.Hour)
			now := base.AddDate(0, 0, nowOffset).Add(time.Duration(23-nowOffset) * time.Hour)

			got := Evaluate(trigger, now, time.UTC)
			switch {
			case nowOffset > triggerOffset:
				require.Equal(t, Elapsed, got)
			case nowOffset == triggerOffset:
				require.Equal(t, Due, got)
			default:
				require.Equal(t, Pending, got)
			}
		}
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "elapsed", Elapsed.String())
	assert.Equal(t, "due", Due.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
