package convert

import (
	"github.com/jsphweid/keycoach/model"
)

// LimitDensity caps onsets per second. The first note is always kept; each
// later note survives only if it starts at least floor(1000/max) ms after
// the last kept onset. Dropped notes are discarded, not merged.
func LimitDensity(notes []model.Note, maxNotesPerSecond int) []model.Note {
	if len(notes) == 0 || maxNotesPerSecond <= 0 {
		return notes
	}
	minGapMs := 1000 / maxNotesPerSecond
	res := []model.Note{notes[0]}
	for _, n := range notes[1:] {
		if n.StartMs-res[len(res)-1].StartMs >= minGapMs {
			res = append(res, n)
		}
	}
	return res
}
