package convert

import (
	"sort"

	"github.com/jsphweid/keycoach/model"
	"github.com/jsphweid/keycoach/pitch"
)

// Normalize flattens the selected instruments' raw notes into the canonical
// pipeline representation: named pitches, truncated millisecond timing and a
// 0-1 velocity. Octave bounds of (0, 0) disable range filtering. The result
// is stably sorted by onset.
func Normalize(insts []model.Instrument, minOctave int, maxOctave int) []model.Note {
	var notes []model.Note
	for _, inst := range insts {
		for _, rn := range inst.Notes {
			startMs := int(rn.StartUs / 1000)
			endMs := int(rn.EndUs / 1000)
			if endMs <= startMs {
				continue
			}
			if minOctave != 0 || maxOctave != 0 {
				octave := int(rn.Pitch)/12 - 1
				if octave < minOctave || octave > maxOctave {
					continue
				}
			}
			notes = append(notes, model.Note{
				Key:        pitch.Name(rn.Pitch),
				StartMs:    startMs,
				DurationMs: endMs - startMs,
				Velocity:   float64(rn.Velocity) / 127,
			})
		}
	}
	sortByStart(notes)
	return notes
}

func sortByStart(notes []model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].StartMs < notes[j].StartMs
	})
}
