package convert

import (
	"github.com/jsphweid/keycoach/model"
	"github.com/jsphweid/keycoach/util"
)

// Quantize removes small overlaps by deferring the later note to the
// previous emitted note's end, then floors every duration at the threshold.
// Overlaps of at least the threshold are left in place: those are treated as
// intentionally held notes, and snapping them would shift timing audibly.
// Applying Quantize to its own output changes nothing.
func Quantize(notes []model.Note, thresholdMs int) []model.Note {
	res := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if len(res) > 0 {
			prevEnd := res[len(res)-1].EndMs()
			if n.StartMs < prevEnd && prevEnd-n.StartMs < thresholdMs {
				n.StartMs = prevEnd
			}
		}
		n.DurationMs = util.Max(n.DurationMs, thresholdMs)
		res = append(res, n)
	}
	return res
}
