package convert

import (
	"testing"

	"github.com/jsphweid/keycoach/model"
	"github.com/stretchr/testify/assert"
)

func note(key string, startMs int, durationMs int) model.Note {
	return model.Note{Key: key, StartMs: startMs, DurationMs: durationMs}
}

func TestCollapseKeepsHighestNoteOfGroup(t *testing.T) {
	notes := []model.Note{
		note("C4", 0, 200),
		note("E4", 0, 200),
		note("G4", 0, 200),
	}

	got := CollapseChords(notes, 50)

	assert.Equal(t, []model.Note{note("G4", 0, 200)}, got)
}

func TestCollapseTieGoesToFirstOccurrence(t *testing.T) {
	notes := []model.Note{
		note("G4", 0, 100),
		note("G4", 20, 300),
	}

	got := CollapseChords(notes, 50)

	assert.Len(t, got, 1)
	assert.Equal(t, note("G4", 0, 100), got[0])
}

func TestCollapseKeptNoteKeepsOwnTiming(t *testing.T) {
	notes := []model.Note{
		note("C4", 0, 200),
		note("E4", 40, 350),
	}

	got := CollapseChords(notes, 50)

	assert.Equal(t, []model.Note{note("E4", 40, 350)}, got)
}

func TestGroupsAnchorAtEarliestOnset(t *testing.T) {
	// 40 and 80 are each within 50ms of their predecessor, but 80 is not
	// within 50ms of the group anchor at 0, so it starts a new group
	notes := []model.Note{
		note("C4", 0, 100),
		note("E4", 40, 100),
		note("G4", 80, 100),
	}

	got := CollapseChords(notes, 50)

	assert.Len(t, got, 2)
	assert.Equal(t, "E4", got[0].Key)
	assert.Equal(t, "G4", got[1].Key)
}

func TestAlignSnapsGroupToCommonOnsetAndDuration(t *testing.T) {
	notes := []model.Note{
		note("C4", 0, 200),
		note("E4", 40, 300),
	}

	got := AlignChords(notes, 50)

	assert.Equal(t, []model.Note{
		note("C4", 0, 300),
		note("E4", 0, 300),
	}, got)
}

func TestAlignSingletonGroupsPassThrough(t *testing.T) {
	notes := []model.Note{
		note("C4", 0, 200),
		note("E4", 400, 150),
	}

	got := AlignChords(notes, 100)

	assert.Equal(t, notes, got)
}

func TestAlignSupportsRecordingTolerance(t *testing.T) {
	// 80ms apart: one chord at the 100ms recording tolerance, two separate
	// notes at the 50ms import tolerance
	notes := []model.Note{
		note("C4", 0, 200),
		note("E4", 80, 500),
	}

	aligned := AlignChords(notes, 100)
	assert.Equal(t, []model.Note{
		note("C4", 0, 500),
		note("E4", 0, 500),
	}, aligned)

	separate := AlignChords(notes, 50)
	assert.Equal(t, notes, separate)
}

func TestAlignResortsAfterRealignment(t *testing.T) {
	notes := []model.Note{
		note("C4", 0, 100),
		note("E4", 90, 400),
		note("G4", 120, 100),
	}

	got := AlignChords(notes, 100)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].StartMs, got[i].StartMs)
	}
}
