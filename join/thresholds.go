package join

// Thresholds are the three knobs of spec.md §4.6. They only change which
// accumulation path a term is routed through, never the result set
// (spec.md §8 "Threshold invariance") — which is what lets a caller (or a
// property test) override them freely.
type Thresholds struct {
	// MinDocFreqFrom: from-term df below this uses the direct postings
	// scan in the classifier (§4.4) instead of a cached-set intersection.
	MinDocFreqFrom int
	// MinDocFreqTo: to-term df below this is eligible for the direct
	// postings-write route in the accumulator (§4.5 rule 3).
	MinDocFreqTo int
	// MaxSortedIntSize: cumulative accumulated size above which the
	// accumulator must promote to a dense bitset (§4.5 rule 1).
	MaxSortedIntSize int
}

// computeThresholds derives the default thresholds from each searcher's
// maxDoc, per the exact formulas of spec.md §4.6.
func computeThresholds(fromMaxDoc, toMaxDoc int32) Thresholds {
	return Thresholds{
		MinDocFreqFrom:   maxInt(5, int(fromMaxDoc>>13)),
		MinDocFreqTo:     maxInt(5, int(toMaxDoc>>13)),
		MaxSortedIntSize: maxInt(10, int(toMaxDoc>>10)),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
