package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentageChange(t *testing.T) {
	tests := []struct {
		name              string
		current, previous time.Duration
		want              float64
	}{
		{name: "week down", current: 20 * time.Hour, previous: 25 * time.Hour, want: -20},
		{name: "month down", current: 90 * time.Hour, previous: 120 * time.Hour, want: -25},
		{name: "up", current: 30 * time.Hour, previous: 20 * time.Hour, want: 50},
		{name: "no previous", current: 5 * time.Hour, previous: 0, want: 0},
		{name: "negative previous", current: 5 * time.Hour, previous: -time.Hour, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PercentageChange(tt.current, tt.previous), 1e-9)
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "-20%", FormatPercentage(-20))
	assert.Equal(t, "+0%", FormatPercentage(0))
	assert.Equal(t, "+12%", FormatPercentage(12.9))
	assert.Equal(t, "-12%", FormatPercentage(-12.9))
	assert.Equal(t, "+0%", FormatPercentage(0.4))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "20h 0m", FormatDuration(20*time.Hour))
	assert.Equal(t, "2h 30m", FormatDuration(2*time.Hour+30*time.Minute))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute+30*time.Second))
	assert.Equal(t, "0m", FormatDuration(0))
}

func TestShares(t *testing.T) {
	arcs := Shares(Sample().ContentMix)
	require.Len(t, arcs, 4)

	assert.Equal(t, "Books", arcs[0].Name)
	assert.InDelta(t, 0.0, arcs[0].Start, 1e-9)
	assert.InDelta(t, 0.25, arcs[0].End, 1e-9)
	assert.InDelta(t, 0.60, arcs[1].End, 1e-9)
	assert.InDelta(t, 0.90, arcs[2].End, 1e-9)
	assert.InDelta(t, 1.0, arcs[3].End, 1e-9)

	for i := 1; i < len(arcs); i++ {
		assert.Equal(t, arcs[i-1].End, arcs[i].Start)
	}
}

func TestSharesZeroTotal(t *testing.T) {
	assert.Empty(t, Shares(nil))
	assert.Empty(t, Shares([]Slice{{Name: "Books", Value: 0}}))
}

func TestSample(t *testing.T) {
	s := Sample()
	assert.True(t, s.Week.Improved())
	assert.True(t, s.Month.Improved())
	assert.Len(t, s.DailyHours, len(s.DayLabels))
}

func TestPeriodSaved(t *testing.T) {
	assert.Equal(t, 5*time.Hour, Period{Current: 20 * time.Hour, Previous: 25 * time.Hour}.Saved())
	assert.Equal(t, time.Duration(0), Period{Current: 3 * time.Hour, Previous: time.Hour}.Saved())
	assert.Equal(t, time.Duration(0), Period{}.Saved())
}
