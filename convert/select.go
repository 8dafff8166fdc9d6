package convert

import (
	"errors"

	"github.com/jsphweid/keycoach/model"
)

var (
	ErrNoPlayableInstrument = errors.New("no playable instrument in midi data")
	ErrEmptyNoteSet         = errors.New("no notes in selected instruments")
)

// SelectInstruments picks the instruments that supply the melody. Every
// acoustic-piano (program 0) instrument wins as a group when any is present;
// otherwise the single non-drum instrument with the most notes is used, ties
// going to the earliest in track order.
func SelectInstruments(insts []model.Instrument) ([]model.Instrument, model.SelectionStrategy, error) {
	var pianos, playable []model.Instrument
	for _, inst := range insts {
		if inst.IsDrum {
			continue
		}
		playable = append(playable, inst)
		if inst.Program == 0 {
			pianos = append(pianos, inst)
		}
	}
	if len(playable) == 0 {
		return nil, "", ErrNoPlayableInstrument
	}

	selected := pianos
	strategy := model.StrategyPianoFirst
	if len(selected) == 0 {
		best := playable[0]
		for _, inst := range playable[1:] {
			if len(inst.Notes) > len(best.Notes) {
				best = inst
			}
		}
		selected = []model.Instrument{best}
		strategy = model.StrategyMostNotes
	}

	total := 0
	for _, inst := range selected {
		total += len(inst.Notes)
	}
	if total == 0 {
		return nil, strategy, ErrEmptyNoteSet
	}
	return selected, strategy, nil
}
