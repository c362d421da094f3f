package reorg

import (
	"slices"
)

// Result is the outcome of running detection over an index snapshot.
type Result struct {
	Detected bool `json:"detected"`
	// AffectedHeights holds every height with more than one hash, ascending.
	AffectedHeights []uint64 `json:"affectedHeights"`
	// ExtraHashCount is the number of hashes beyond one per height.
	ExtraHashCount int `json:"extraHashCount"`
	TotalHashes    int `json:"totalHashes"`
	TotalSlots     int `json:"totalSlots"`
}

// Consistent reports whether every stored hash occupies exactly one height slot.
func (r Result) Consistent() bool {
	return r.TotalHashes == r.TotalSlots
}

// Detect inspects snap for heights holding more than one hash.
func Detect(snap IndexSnapshot) Result {
	res := Result{
		TotalHashes: len(snap.ByHash),
	}

	for height, hashes := range snap.ByHeight {
		res.TotalSlots += len(hashes)
		if len(hashes) > 1 {
			res.AffectedHeights = append(res.AffectedHeights, height)
		}
	}

	res.ExtraHashCount = res.TotalSlots - len(snap.ByHeight)
	res.Detected = len(res.AffectedHeights) > 0
	slices.Sort(res.AffectedHeights)

	return res
}
