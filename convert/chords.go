package convert

import (
	"github.com/jsphweid/keycoach/model"
	"github.com/jsphweid/keycoach/pitch"
)

// groupSimultaneous splits an onset-sorted note list into chord groups. A
// note joins the current group while its onset is within toleranceMs of the
// group's earliest onset, so a group can span the tolerance but never drift
// further by chaining.
func groupSimultaneous(notes []model.Note, toleranceMs int) [][]model.Note {
	var groups [][]model.Note
	for _, n := range notes {
		if len(groups) > 0 {
			current := groups[len(groups)-1]
			if n.StartMs-current[0].StartMs <= toleranceMs {
				groups[len(groups)-1] = append(current, n)
				continue
			}
		}
		groups = append(groups, []model.Note{n})
	}
	return groups
}

// CollapseChords reduces each simultaneous group to its highest note,
// producing a monophonic melody. The kept note keeps its own timing. Ties
// go to the first occurrence.
func CollapseChords(notes []model.Note, toleranceMs int) []model.Note {
	var res []model.Note
	for _, group := range groupSimultaneous(notes, toleranceMs) {
		top := group[0]
		for _, n := range group[1:] {
			if chromaticOrZero(n.Key) > chromaticOrZero(top.Key) {
				top = n
			}
		}
		res = append(res, top)
	}
	return res
}

func chromaticOrZero(key string) int {
	v, err := pitch.Chromatic(key)
	if err != nil {
		return 0
	}
	return v
}

// AlignChords snaps every group of two or more notes to the group's earliest
// onset and longest duration, keeping all of them so a chord lands as one
// block. Singleton groups pass through untouched.
func AlignChords(notes []model.Note, toleranceMs int) []model.Note {
	var res []model.Note
	for _, group := range groupSimultaneous(notes, toleranceMs) {
		if len(group) == 1 {
			res = append(res, group[0])
			continue
		}
		start := group[0].StartMs
		duration := group[0].DurationMs
		for _, n := range group[1:] {
			if n.StartMs < start {
				start = n.StartMs
			}
			if n.DurationMs > duration {
				duration = n.DurationMs
			}
		}
		for _, n := range group {
			n.StartMs = start
			n.DurationMs = duration
			res = append(res, n)
		}
	}
	// realignment can reorder relative to untouched neighbors
	sortByStart(res)
	return res
}
