package convert

import (
	"errors"
	"fmt"

	"github.com/jsphweid/keycoach/constants"
	"github.com/jsphweid/keycoach/model"
)

var ErrInvalidOptions = errors.New("invalid conversion options")

// DefaultOptions returns the documented defaults for the import pipeline.
func DefaultOptions() model.ConversionOptions {
	return model.ConversionOptions{
		MinOctave:           constants.DefaultMinOctave,
		MaxOctave:           constants.DefaultMaxOctave,
		MinNoteDurationMs:   constants.DefaultMinNoteDurationMs,
		QuantizeThresholdMs: constants.DefaultQuantizeThresholdMs,
		SimplifyMelody:      true,
		RemoveChords:        true,
		MaxNotesPerSecond:   constants.DefaultMaxNotesPerSecond,
	}
}

// ApplyDefaults fills unset numeric fields so a partial options object from
// a request body still validates. Booleans are taken as sent.
func ApplyDefaults(o *model.ConversionOptions) {
	defaults := DefaultOptions()
	if o.MinOctave == 0 {
		o.MinOctave = defaults.MinOctave
	}
	if o.MaxOctave == 0 {
		o.MaxOctave = defaults.MaxOctave
	}
	if o.MinNoteDurationMs == 0 {
		o.MinNoteDurationMs = defaults.MinNoteDurationMs
	}
	if o.QuantizeThresholdMs == 0 {
		o.QuantizeThresholdMs = defaults.QuantizeThresholdMs
	}
	if o.MaxNotesPerSecond == 0 {
		o.MaxNotesPerSecond = defaults.MaxNotesPerSecond
	}
}

// ValidateOptions enforces the documented ranges.
func ValidateOptions(o model.ConversionOptions) error {
	if o.MinOctave < 1 || o.MinOctave > 8 {
		return fmt.Errorf("%w: min_octave %v is outside 1-8", ErrInvalidOptions, o.MinOctave)
	}
	if o.MaxOctave < 1 || o.MaxOctave > 8 {
		return fmt.Errorf("%w: max_octave %v is outside 1-8", ErrInvalidOptions, o.MaxOctave)
	}
	if o.MaxOctave < o.MinOctave {
		return fmt.Errorf("%w: max_octave %v is below min_octave %v", ErrInvalidOptions, o.MaxOctave, o.MinOctave)
	}
	if o.MinNoteDurationMs < 50 {
		return fmt.Errorf("%w: min_note_duration %v is below 50ms", ErrInvalidOptions, o.MinNoteDurationMs)
	}
	if o.QuantizeThresholdMs < 10 {
		return fmt.Errorf("%w: quantize_threshold %v is below 10ms", ErrInvalidOptions, o.QuantizeThresholdMs)
	}
	if o.MaxNotesPerSecond < 1 {
		return fmt.Errorf("%w: max_notes_per_second %v is below 1", ErrInvalidOptions, o.MaxNotesPerSecond)
	}
	return nil
}
