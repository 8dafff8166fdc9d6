// Package midifile reads and writes standard MIDI files for the conversion
// pipeline. It stops at the event layer: pairing note on/off events into
// timed notes and grouping them per instrument. Everything musical happens
// downstream in the convert package.
package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/jsphweid/keycoach/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrDecodeFailure = errors.New("could not decode midi data")

const drumChannel = 9

// File is a decoded MIDI file reduced to what the pipeline needs.
type File struct {
	Instruments   []model.Instrument
	BPM           int
	TimeSignature string
}

// Decode parses raw MIDI bytes into per-channel instruments with paired
// note on/off events and absolute timing in microseconds.
func Decode(data []byte) (f *File, e error) {
	// the smf reader panics on some malformed files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			e = fmt.Errorf("%w: %v", ErrDecodeFailure, r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	f = &File{
		Instruments:   instrumentsFrom(s),
		BPM:           120,
		TimeSignature: "4/4",
	}

	var bpm float64
	var num, denom uint8
	foundTempo := false
	foundMeter := false
	for _, track := range s.Tracks {
		for _, ev := range track {
			if !foundTempo && ev.Message.GetMetaTempo(&bpm) {
				f.BPM = int(bpm)
				foundTempo = true
			}
			if !foundMeter && ev.Message.GetMetaMeter(&num, &denom) {
				f.TimeSignature = fmt.Sprintf("%v/%v", num, denom)
				foundMeter = true
			}
		}
	}

	return f, nil
}

type heldNote struct {
	startUs  int64
	velocity uint8
}

type instKey struct {
	track   int
	channel uint8
}

func instrumentsFrom(s *smf.SMF) []model.Instrument {
	var order []instKey
	byKey := make(map[instKey]*model.Instrument)

	instrumentFor := func(k instKey, program uint8) *model.Instrument {
		if inst, ok := byKey[k]; ok {
			return inst
		}
		inst := &model.Instrument{
			Track:   k.track,
			Channel: k.channel,
			Program: program,
			IsDrum:  k.channel == drumChannel,
		}
		byKey[k] = inst
		order = append(order, k)
		return inst
	}

	for ti, track := range s.Tracks {
		var absTicks int64
		programs := make(map[uint8]uint8)
		held := make(map[uint16]heldNote)

		for _, ev := range track {
			absTicks += int64(ev.Delta)
			absUs := s.TimeAt(absTicks)

			var ch, key, vel, prog uint8
			switch {
			case ev.Message.GetProgramChange(&ch, &prog):
				programs[ch] = prog
			case ev.Message.GetNoteStart(&ch, &key, &vel):
				held[uint16(ch)<<8|uint16(key)] = heldNote{startUs: absUs, velocity: vel}
			case ev.Message.GetNoteEnd(&ch, &key):
				hk := uint16(ch)<<8 | uint16(key)
				h, ok := held[hk]
				if !ok {
					// note off without a matching on
					continue
				}
				delete(held, hk)
				if absUs <= h.startUs {
					continue
				}
				inst := instrumentFor(instKey{track: ti, channel: ch}, programs[ch])
				inst.Notes = append(inst.Notes, model.RawNote{
					Pitch:    key,
					StartUs:  h.startUs,
					EndUs:    absUs,
					Velocity: h.velocity,
				})
			}
		}
	}

	res := make([]model.Instrument, 0, len(order))
	for _, k := range order {
		inst := *byKey[k]
		// offs arrive in release order, not onset order
		sort.SliceStable(inst.Notes, func(i, j int) bool {
			return inst.Notes[i].StartUs < inst.Notes[j].StartUs
		})
		res = append(res, inst)
	}
	return res
}
