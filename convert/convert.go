// Package convert is the conversion pipeline: it turns decoded MIDI files
// and live-performance captures into normalized, playable note sequences
// for the tutorial player. Every stage is a pure function over an
// onset-sorted note list, so the pipeline can run concurrently for
// independent requests without locking.
package convert

import (
	"fmt"

	"github.com/jsphweid/keycoach/constants"
	"github.com/jsphweid/keycoach/midifile"
	"github.com/jsphweid/keycoach/model"
)

// MIDIToSong runs the full import pipeline over raw MIDI bytes. A nil
// options pointer selects simple mode: normalization and difficulty scoring
// only, with no octave filter and no cleanup stages. Conversion is
// all-or-nothing; no partial result is ever returned.
func MIDIToSong(data []byte, opts *model.ConversionOptions) (*model.ProcessingResult, error) {
	if opts != nil {
		if err := ValidateOptions(*opts); err != nil {
			return nil, err
		}
	}

	f, err := midifile.Decode(data)
	if err != nil {
		return nil, err
	}

	selected, strategy, err := SelectInstruments(f.Instruments)
	if err != nil {
		return nil, err
	}

	var notes []model.Note
	if opts == nil {
		notes = Normalize(selected, 0, 0)
	} else {
		notes = Normalize(selected, opts.MinOctave, opts.MaxOctave)
		if opts.RemoveChords {
			notes = CollapseChords(notes, constants.CollapseToleranceMs)
		}
		if opts.SimplifyMelody {
			notes = SimplifyMelody(notes, opts.QuantizeThresholdMs)
		}
		notes = Quantize(notes, opts.QuantizeThresholdMs)
		for i := range notes {
			if notes[i].DurationMs < opts.MinNoteDurationMs {
				notes[i].DurationMs = opts.MinNoteDurationMs
			}
		}
		notes = LimitDensity(notes, opts.MaxNotesPerSecond)
	}

	if len(notes) == 0 {
		return nil, ErrEmptyNoteSet
	}

	total := 0
	for _, n := range notes {
		if n.EndMs() > total {
			total = n.EndMs()
		}
	}

	return &model.ProcessingResult{
		Notes:           notes,
		TotalDurationMs: total,
		NoteCount:       len(notes),
		TracksFound:     len(f.Instruments),
		BPM:             f.BPM,
		TimeSignature:   f.TimeSignature,
		Difficulty:      ClassifyDifficulty(notes),
		Strategy:        strategy,
	}, nil
}

// RecordingToSong converts live-capture notes into tutorial form: named key
// plus onset and duration, with chords aligned within the recording
// tolerance so they land as one block. Missing end times get the default
// live-note duration, missing velocities 0.7.
func RecordingToSong(recorded []model.RecordedNote) []model.Note {
	var notes []model.Note
	for _, rn := range recorded {
		endMs := rn.StartMs + constants.DefaultLiveNoteDurationMs
		if rn.EndMs != nil {
			endMs = *rn.EndMs
		}
		velocity := rn.Velocity
		if velocity == 0 {
			velocity = 0.7
		}
		notes = append(notes, model.Note{
			Key:        fmt.Sprintf("%v%v", rn.Note, rn.Octave),
			StartMs:    rn.StartMs,
			DurationMs: endMs - rn.StartMs,
			Velocity:   velocity,
		})
	}
	sortByStart(notes)
	return AlignChords(notes, constants.AlignToleranceMs)
}

// RecordingDuration is the end of the latest note, with the live default
// applied to open-ended notes.
func RecordingDuration(recorded []model.RecordedNote) int {
	duration := 0
	for _, rn := range recorded {
		endMs := rn.StartMs + constants.DefaultLiveNoteDurationMs
		if rn.EndMs != nil {
			endMs = *rn.EndMs
		}
		if endMs > duration {
			duration = endMs
		}
	}
	return duration
}

// Analyze inspects raw MIDI bytes without converting them, reporting shape
// and recommended conversion settings for the upload UI.
func Analyze(data []byte) (*model.AnalysisResponse, error) {
	f, err := midifile.Decode(data)
	if err != nil {
		return nil, err
	}

	totalNotes := 0
	var endUs int64
	for _, inst := range f.Instruments {
		totalNotes += len(inst.Notes)
		for _, rn := range inst.Notes {
			if rn.EndUs > endUs {
				endUs = rn.EndUs
			}
		}
	}
	durationMs := int(endUs / 1000)

	var density float64
	if durationMs > 0 {
		density = float64(totalNotes) / (float64(durationMs) / 1000)
	}

	maxNps := int(density * 1.5)
	if maxNps < 2 {
		maxNps = 2
	}
	if maxNps > 6 {
		maxNps = 6
	}
	minDuration := 100
	if density > 3 {
		minDuration = 150
	}

	return &model.AnalysisResponse{
		Tracks:        len(f.Instruments),
		Notes:         totalNotes,
		DurationMs:    durationMs,
		BPM:           f.BPM,
		TimeSignature: f.TimeSignature,
		NoteDensity:   density,
		RecommendedSettings: model.RecommendedSettings{
			RemoveChords:      totalNotes > 50 && density > 2,
			SimplifyMelody:    totalNotes > 100,
			MaxNotesPerSecond: maxNps,
			MinNoteDurationMs: minDuration,
		},
	}, nil
}
