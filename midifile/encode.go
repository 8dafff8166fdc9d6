package midifile

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jsphweid/keycoach/constants"
	"github.com/jsphweid/keycoach/model"
	"github.com/jsphweid/keycoach/pitch"
	"github.com/jsphweid/keycoach/util"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const encodeTicksPerQuarter = 480

// Encode serializes recorded notes into a single-instrument (acoustic grand
// piano) MIDI file at the given tempo. Notes without an end time get the
// default live-capture duration; velocity 0 means "absent" and falls back
// to 0.7.
func Encode(notes []model.RecordedNote, bpm int) ([]byte, error) {
	if bpm <= 0 {
		bpm = constants.DefaultBPM
	}

	s := smf.New()
	ticks := smf.MetricTicks(encodeTicksPerQuarter)
	s.TimeFormat = ticks

	type timedMsg struct {
		tick uint32
		off  bool
		msg  midi.Message
	}
	var msgs []timedMsg

	for _, rn := range notes {
		name := fmt.Sprintf("%v%v", rn.Note, rn.Octave)
		num, err := pitch.Number(name)
		if err != nil {
			return nil, err
		}

		endMs := rn.StartMs + constants.DefaultLiveNoteDurationMs
		if rn.EndMs != nil {
			endMs = *rn.EndMs
		}
		velocity := rn.Velocity
		if velocity == 0 {
			velocity = 0.7
		}
		vel := uint8(util.Clamp(int(math.Round(velocity*127)), 0, 127))

		on := ticks.Ticks(float64(bpm), time.Duration(rn.StartMs)*time.Millisecond)
		off := ticks.Ticks(float64(bpm), time.Duration(endMs)*time.Millisecond)
		msgs = append(msgs, timedMsg{tick: on, msg: midi.NoteOn(0, num, vel)})
		msgs = append(msgs, timedMsg{tick: off, off: true, msg: midi.NoteOff(0, num)})
	}

	// note offs go first at equal ticks so a retriggered pitch pairs with
	// the right off event
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var track smf.Track
	track.Add(0, smf.MetaTempo(float64(bpm)))
	track.Add(0, smf.MetaInstrument("Acoustic Grand Piano"))
	track.Add(0, midi.ProgramChange(0, 0))
	var prev uint32
	for _, m := range msgs {
		track.Add(m.tick-prev, m.msg)
		prev = m.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("could not add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("could not serialize midi: %w", err)
	}
	return buf.Bytes(), nil
}
