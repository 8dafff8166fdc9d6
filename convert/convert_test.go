package convert

import (
	"testing"

	"github.com/jsphweid/keycoach/midifile"
	"github.com/jsphweid/keycoach/model"
	"github.com/stretchr/testify/assert"
)

func ptr(v int) *int {
	return &v
}

func recordedNote(name string, octave int, startMs int, endMs int) model.RecordedNote {
	return model.RecordedNote{
		Note:    name,
		Octave:  octave,
		StartMs: startMs,
		EndMs:   ptr(endMs),
	}
}

func encodeSong(t *testing.T, notes []model.RecordedNote) []byte {
	t.Helper()
	data, err := midifile.Encode(notes, 120)
	assert.NoError(t, err)
	return data
}

func TestMIDIToSongSimpleModeOnlyNormalizes(t *testing.T) {
	// a chord plus an out-of-default-range bass note; simple mode keeps all
	data := encodeSong(t, []model.RecordedNote{
		recordedNote("C", 2, 0, 400),
		recordedNote("C", 4, 0, 400),
		recordedNote("E", 4, 0, 400),
		recordedNote("G", 4, 0, 400),
	})

	res, err := MIDIToSong(data, nil)

	assert.NoError(t, err)
	assert.Equal(t, 4, res.NoteCount)
	assert.Equal(t, model.StrategyPianoFirst, res.Strategy)
	assert.Equal(t, 120, res.BPM)
	for i := 1; i < len(res.Notes); i++ {
		assert.LessOrEqual(t, res.Notes[i-1].StartMs, res.Notes[i].StartMs)
	}
}

func TestMIDIToSongCollapsesChordsWithOptions(t *testing.T) {
	data := encodeSong(t, []model.RecordedNote{
		recordedNote("C", 4, 0, 400),
		recordedNote("E", 4, 0, 400),
		recordedNote("G", 4, 0, 400),
		recordedNote("D", 4, 1000, 1400),
	})

	opts := DefaultOptions()
	res, err := MIDIToSong(data, &opts)

	assert.NoError(t, err)
	assert.Equal(t, 2, res.NoteCount)
	assert.Equal(t, "G4", res.Notes[0].Key)
	assert.Equal(t, "D4", res.Notes[1].Key)
}

func TestMIDIToSongOctaveFilterCanEmptyTheSet(t *testing.T) {
	data := encodeSong(t, []model.RecordedNote{
		recordedNote("C", 2, 0, 400),
	})

	opts := DefaultOptions()
	_, err := MIDIToSong(data, &opts)

	assert.ErrorIs(t, err, ErrEmptyNoteSet)
}

func TestMIDIToSongRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.QuantizeThresholdMs = 5

	_, err := MIDIToSong([]byte{}, &opts)

	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestMIDIToSongRejectsGarbage(t *testing.T) {
	_, err := MIDIToSong([]byte("nope"), nil)
	assert.ErrorIs(t, err, midifile.ErrDecodeFailure)
}

func TestValidateOptionsRanges(t *testing.T) {
	cases := []func(*model.ConversionOptions){
		func(o *model.ConversionOptions) { o.MinOctave = 0 },
		func(o *model.ConversionOptions) { o.MaxOctave = 9 },
		func(o *model.ConversionOptions) { o.MinOctave = 6; o.MaxOctave = 4 },
		func(o *model.ConversionOptions) { o.MinNoteDurationMs = 49 },
		func(o *model.ConversionOptions) { o.QuantizeThresholdMs = 9 },
		func(o *model.ConversionOptions) { o.MaxNotesPerSecond = 0 },
	}

	for _, mutate := range cases {
		opts := DefaultOptions()
		mutate(&opts)
		assert.ErrorIs(t, ValidateOptions(opts), ErrInvalidOptions)
	}

	assert.NoError(t, ValidateOptions(DefaultOptions()))
}

func TestApplyDefaultsFillsUnsetNumericFields(t *testing.T) {
	opts := model.ConversionOptions{RemoveChords: true}
	ApplyDefaults(&opts)

	assert.NoError(t, ValidateOptions(opts))
	assert.Equal(t, 50, opts.QuantizeThresholdMs)
	assert.Equal(t, 4, opts.MaxNotesPerSecond)
	assert.True(t, opts.RemoveChords)
	assert.False(t, opts.SimplifyMelody)
}

func TestRecordingToSongCombinesKeyAndAlignsChords(t *testing.T) {
	recorded := []model.RecordedNote{
		recordedNote("C", 4, 0, 200),
		recordedNote("E", 4, 80, 500),
		recordedNote("G", 4, 600, 900),
	}

	got := RecordingToSong(recorded)

	// first two notes are within the 100ms recording tolerance
	assert.Equal(t, []model.Note{
		{Key: "C4", StartMs: 0, DurationMs: 420, Velocity: 0.7},
		{Key: "E4", StartMs: 0, DurationMs: 420, Velocity: 0.7},
		{Key: "G4", StartMs: 600, DurationMs: 300, Velocity: 0.7},
	}, got)
}

func TestRecordingToSongDefaultsMissingEndTime(t *testing.T) {
	recorded := []model.RecordedNote{
		{Note: "A", Octave: 3, StartMs: 100, Velocity: 0.5},
	}

	got := RecordingToSong(recorded)

	assert.Equal(t, []model.Note{
		{Key: "A3", StartMs: 100, DurationMs: 500, Velocity: 0.5},
	}, got)
}

func TestRecordingDurationUsesLatestEnd(t *testing.T) {
	recorded := []model.RecordedNote{
		recordedNote("C", 4, 0, 2000),
		{Note: "D", Octave: 4, StartMs: 1800}, // open-ended: 1800+500
	}

	assert.Equal(t, 2300, RecordingDuration(recorded))
}

func TestAnalyzeReportsShapeAndRecommendations(t *testing.T) {
	var notes []model.RecordedNote
	for i := 0; i < 60; i++ {
		notes = append(notes, recordedNote("C", 4, i*200, i*200+150))
	}
	data := encodeSong(t, notes)

	got, err := Analyze(data)

	assert.NoError(t, err)
	assert.Equal(t, 1, got.Tracks)
	assert.Equal(t, 60, got.Notes)
	assert.Equal(t, 120, got.BPM)
	assert.Greater(t, got.NoteDensity, 2.0)
	assert.True(t, got.RecommendedSettings.RemoveChords)
	assert.GreaterOrEqual(t, got.RecommendedSettings.MaxNotesPerSecond, 2)
	assert.LessOrEqual(t, got.RecommendedSettings.MaxNotesPerSecond, 6)
}
