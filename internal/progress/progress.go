// Package progress computes the usage summary shown on the progress screen.
// Figures are simulated; no device data is collected.
package progress

import (
	"fmt"
	"time"
)

// PercentageChange returns the change from previous to current in percent.
// It is 0 when previous is not positive.
func PercentageChange(current, previous time.Duration) float64 {
	if previous <= 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// FormatPercentage renders a change as "+N%" or "-N%", truncating toward zero.
func FormatPercentage(pct float64) string {
	n := int(pct)
	if pct >= 0 {
		return fmt.Sprintf("+%d%%", n)
	}
	return fmt.Sprintf("%d%%", n)
}

// FormatDuration renders d as "Xh Ym", or "Ym" under an hour.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Slice is one segment of the content breakdown.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Arc is a Slice placed on the donut: Start and End are fractions of the
// full circle in [0, 1].
type Arc struct {
	Slice
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Shares lays slices end to end. It returns no arcs when the values sum to
// zero or less.
func Shares(slices []Slice) []Arc {
	total := 0
	for _, s := range slices {
		total += s.Value
	}
	if total <= 0 {
		return []Arc{}
	}

	arcs := make([]Arc, 0, len(slices))
	running := 0
	for _, s := range slices {
		start := float64(running) / float64(total)
		running += s.Value
		arcs = append(arcs, Arc{
			Slice: s,
			Start: start,
			End:   float64(running) / float64(total),
		})
	}
	return arcs
}

// Period compares usage against the previous period of the same length.
type Period struct {
	Current  time.Duration
	Previous time.Duration
}

// Change is PercentageChange for the period.
func (p Period) Change() float64 { return PercentageChange(p.Current, p.Previous) }

// Improved reports whether usage went down.
func (p Period) Improved() bool { return p.Change() < 0 }

// Saved is the time cut compared with the previous period, zero when usage grew.
func (p Period) Saved() time.Duration { return max(p.Previous-p.Current, 0) }

// Summary is the payload of the progress screen.
type Summary struct {
	Week       Period
	Month      Period
	DailyHours []float64
	DayLabels  []string
	ContentMix []Slice
}

// Sample returns the fixed demonstration dataset.
func Sample() Summary {
	return Summary{
		Week:       Period{Current: 20 * time.Hour, Previous: 25 * time.Hour},
		Month:      Period{Current: 90 * time.Hour, Previous: 120 * time.Hour},
		DailyHours: []float64{3.2, 4.1, 2.8, 4.5, 3.8, 3.0, 2.7},
		DayLabels:  []string{"S", "M", "T", "W", "T", "F", "S"},
		ContentMix: []Slice{
			{Name: "Books", Value: 25},
			{Name: "Videos", Value: 35},
			{Name: "Podcasts", Value: 30},
			{Name: "Activities", Value: 10},
		},
	}
}
