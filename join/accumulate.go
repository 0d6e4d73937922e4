package join

import "github.com/RoaringBitmap/roaring"

// accumulator is the adaptive to-side result builder of spec.md §4.5: a
// sparse list of small sets, promoted one-way to a dense bitset once the
// accumulated size crosses th.MaxSortedIntSize.
type accumulator struct {
	th Thresholds

	resultBits     *roaring.Bitmap // nil until promoted
	resultList     []*SortedIntDocSet
	resultListDocs int
}

func newAccumulator(th Thresholds) *accumulator {
	return &accumulator{th: th}
}

// route applies the three routing rules of spec.md §4.5 to one to-term
// that the from-side classifier already confirmed intersects Q.
func (a *accumulator) route(toSearcher Searcher, toField string, term []byte, toCursor TermCursor, dfTo int, live Bits, diag *Counters) error {
	// Rule 1: promotion to bitset. The current term's contribution is
	// what triggers promotion; already-accumulated small sets are
	// folded in at finalization.
	if a.resultBits == nil && dfTo+a.resultListDocs > a.th.MaxSortedIntSize && len(a.resultList) > 0 {
		a.resultBits = roaring.New()
		diag.SmallSetsDeferred = len(a.resultList)
	}

	// Rule 2: cache route.
	if dfTo >= a.th.MinDocFreqTo || a.resultBits == nil {
		cached, err := toSearcher.GetDocSetForTerm(toField, term)
		if err != nil {
			return &IndexIOError{Op: "to-term cached docset", Err: err}
		}
		switch {
		case a.resultBits != nil:
			cached.AddAllTo(a.resultBits)
		case cached.Kind() == KindDense:
			// Clone rather than copy bit-by-bit.
			a.resultBits = cached.(*DenseBitDocSet).Bitmap().Clone()
		default:
			sorted, ok := cached.(*SortedIntDocSet)
			if !ok {
				// Defensive conversion for any other DocSet
				// implementation a caller might supply.
				bm := roaring.New()
				cached.AddAllTo(bm)
				sorted = sortedFromBitmap(bm)
			}
			a.resultList = append(a.resultList, sorted)
		}
		a.resultListDocs += cached.Size()
		diag.ToSetDocsAdded += cached.Size()
		return nil
	}

	// Rule 3: direct route — dfTo < MinDocFreqTo AND resultBits already
	// exists.
	diag.ToTermDirectCount++
	postings, err := toCursor.Postings()
	if err != nil {
		return &IndexIOError{Op: "to-term postings", Err: err}
	}
	filtered := newLiveFilteredPostings(postings, live)
	added := 0
	for {
		d, ok := filtered.NextDoc()
		if !ok {
			break
		}
		a.resultBits.Add(uint32(d))
		added++
	}
	diag.ToSetDocsAdded += added
	return nil
}

// finalize implements the draining rules of spec.md §4.5.
func (a *accumulator) finalize() DocSet {
	if a.resultBits != nil {
		for _, s := range a.resultList {
			s.AddAllTo(a.resultBits)
		}
		return NewDenseBitDocSet(a.resultBits)
	}
	switch len(a.resultList) {
	case 0:
		return NewSortedIntDocSet(nil)
	case 1:
		return a.resultList[0]
	default:
		lists := make([][]int32, len(a.resultList))
		for i, s := range a.resultList {
			lists[i] = s.Ids()
		}
		return NewSortedIntDocSet(mergeSortedUnique(lists))
	}
}

func sortedFromBitmap(bm *roaring.Bitmap) *SortedIntDocSet {
	ids := make([]int32, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, int32(it.Next()))
	}
	return NewSortedIntDocSet(ids)
}
