package midifile

import (
	"fmt"
	"testing"

	"github.com/jsphweid/keycoach/model"
	"github.com/jsphweid/keycoach/pitch"
	"github.com/stretchr/testify/assert"
)

func ptr(v int) *int {
	return &v
}

func recorded(note string, octave int, startMs int, endMs int) model.RecordedNote {
	return model.RecordedNote{
		Note:    note,
		Octave:  octave,
		StartMs: startMs,
		EndMs:   ptr(endMs),
	}
}

func TestRoundTripPreservesPitchesAndTiming(t *testing.T) {
	notes := []model.RecordedNote{
		recorded("C", 4, 0, 400),
		recorded("E", 4, 0, 400),
		recorded("G", 4, 0, 400),
		recorded("F#", 5, 500, 750),
		recorded("A", 3, 1000, 1800),
	}

	data, err := Encode(notes, 120)
	assert.NoError(t, err)

	f, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, 120, f.BPM)
	assert.Len(t, f.Instruments, 1)

	inst := f.Instruments[0]
	assert.Equal(t, uint8(0), inst.Program)
	assert.False(t, inst.IsDrum)
	assert.Len(t, inst.Notes, len(notes))

	for i, rn := range notes {
		got := inst.Notes[i]
		assert.Equal(t, fmt.Sprintf("%v%v", rn.Note, rn.Octave), pitch.Name(got.Pitch))
		assert.InDelta(t, rn.StartMs, int(got.StartUs/1000), 1)
		assert.InDelta(t, *rn.EndMs, int(got.EndUs/1000), 1)
	}
}

func TestRoundTripRetriggeredPitchPairsCorrectly(t *testing.T) {
	// second C4 starts exactly when the first ends
	notes := []model.RecordedNote{
		recorded("C", 4, 0, 500),
		recorded("C", 4, 500, 900),
	}

	data, err := Encode(notes, 120)
	assert.NoError(t, err)

	f, err := Decode(data)
	assert.NoError(t, err)
	assert.Len(t, f.Instruments, 1)
	assert.Len(t, f.Instruments[0].Notes, 2)
}

func TestEncodeDefaultsMissingEndTime(t *testing.T) {
	notes := []model.RecordedNote{{Note: "C", Octave: 4, StartMs: 100}}

	data, err := Encode(notes, 120)
	assert.NoError(t, err)

	f, err := Decode(data)
	assert.NoError(t, err)
	got := f.Instruments[0].Notes[0]
	assert.InDelta(t, 600, int(got.EndUs/1000), 1)
}

func TestEncodeRejectsUnknownPitchName(t *testing.T) {
	notes := []model.RecordedNote{{Note: "H", Octave: 4, StartMs: 0}}
	_, err := Encode(notes, 120)
	assert.ErrorIs(t, err, pitch.ErrInvalidPitchName)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not a midi file"))
	assert.ErrorIs(t, err, ErrDecodeFailure)
}

func TestDecodeDefaultsTempoAndMeter(t *testing.T) {
	data, err := Encode([]model.RecordedNote{recorded("C", 4, 0, 200)}, 0)
	assert.NoError(t, err)

	f, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, 120, f.BPM)
	assert.Equal(t, "4/4", f.TimeSignature)
}
