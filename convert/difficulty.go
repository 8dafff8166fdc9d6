package convert

import (
	"strings"

	"github.com/jsphweid/keycoach/model"
)

// ClassifyDifficulty scores a finished note list into a three-tier label.
// The score is a heuristic proxy for playing difficulty, not pedagogical
// ground truth; callers may override it with an explicit label. An empty
// list is beginner.
func ClassifyDifficulty(notes []model.Note) model.Difficulty {
	if len(notes) == 0 {
		return model.DifficultyBeginner
	}

	last := notes[len(notes)-1]
	durationSec := float64(last.EndMs()) / 1000
	var density float64
	if durationSec > 0 {
		density = float64(len(notes)) / durationSec
	}

	unique := make(map[string]bool)
	hasSharps := false
	totalDurationMs := 0
	for _, n := range notes {
		unique[n.Key] = true
		if strings.Contains(n.Key, "#") {
			hasSharps = true
		}
		totalDurationMs += n.DurationMs
	}
	avgDurationMs := float64(totalDurationMs) / float64(len(notes))

	score := 0
	switch {
	case len(notes) > 50:
		score += 2
	case len(notes) > 25:
		score += 1
	}
	switch {
	case density > 2:
		score += 2
	case density > 1:
		score += 1
	}
	switch {
	case len(unique) > 8:
		score += 2
	case len(unique) > 5:
		score += 1
	}
	if hasSharps {
		score += 1
	}
	if avgDurationMs < 300 {
		score += 1
	}

	switch {
	case score >= 5:
		return model.DifficultyAdvanced
	case score >= 2:
		return model.DifficultyIntermediate
	default:
		return model.DifficultyBeginner
	}
}
