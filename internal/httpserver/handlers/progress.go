package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mindnest/internal/progress"
)

type periodView struct {
	Current  string  `json:"current"`
	Previous string  `json:"previous"`
	Saved    string  `json:"saved"`
	Change   float64 `json:"change"`
	Label    string  `json:"label"`
	Improved bool    `json:"improved"`
}

type progressResponse struct {
	Week       periodView     `json:"week"`
	Month      periodView     `json:"month"`
	DailyHours []float64      `json:"daily_hours"`
	DayLabels  []string       `json:"day_labels"`
	Breakdown  []progress.Arc `json:"breakdown"`
}

// Progress serves the simulated usage summary.
func Progress(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := progress.Sample()
		writeJSON(w, http.StatusOK, progressResponse{
			Week:       period(s.Week),
			Month:      period(s.Month),
			DailyHours: s.DailyHours,
			DayLabels:  s.DayLabels,
			Breakdown:  progress.Shares(s.ContentMix),
		})
	}
}

func period(p progress.Period) periodView {
	change := p.Change()
	return periodView{
		Current:  progress.FormatDuration(p.Current),
		Previous: progress.FormatDuration(p.Previous),
		Saved:    progress.FormatDuration(p.Saved()),
		Change:   change,
		Label:    progress.FormatPercentage(change),
		Improved: p.Improved(),
	}
}
