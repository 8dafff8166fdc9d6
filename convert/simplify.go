package convert

import (
	"github.com/jsphweid/keycoach/model"
)

// SimplifyMelody merges runs of the same pitch that retrigger faster than
// twice the quantize threshold into one sustained note, extending the
// previously emitted note instead of adding a new one. Only consecutive
// repeats merge; the same pitch elsewhere in the piece is untouched.
func SimplifyMelody(notes []model.Note, quantizeThresholdMs int) []model.Note {
	mergeWindowMs := 2 * quantizeThresholdMs
	var res []model.Note
	for _, n := range notes {
		if len(res) > 0 {
			last := &res[len(res)-1]
			if last.Key == n.Key && n.StartMs-last.StartMs < mergeWindowMs {
				if extended := n.EndMs() - last.StartMs; extended > last.DurationMs {
					last.DurationMs = extended
				}
				continue
			}
		}
		res = append(res, n)
	}
	return res
}
