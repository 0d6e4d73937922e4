package join

// classify decides whether the from-term currently positioned on
// fromCursor has any document intersecting fromSet (spec.md §4.4):
//
//   - Rare term (dfFrom < th.MinDocFreqFrom): scan its postings directly,
//     probing each yielded DocId against fromSet's membership view.
//     Live-docs filtering is intentionally omitted here — fromSet is
//     already the evaluation of Q, which only ever matches live
//     documents, so its membership view already excludes deletions.
//   - Common term: fetch the cached DocSet for (fromField, term) and test
//     set intersection instead of materializing a full postings scan.
func classify(
	fromSearcher Searcher,
	fromField string,
	term []byte,
	fromCursor TermCursor,
	dfFrom int,
	fromSet DocSet,
	th Thresholds,
	diag *Counters,
) (bool, error) {
	if dfFrom < th.MinDocFreqFrom {
		diag.FromTermDirectCount++
		postings, err := fromCursor.Postings()
		if err != nil {
			return false, &IndexIOError{Op: "from-term postings", Err: err}
		}
		view := fromSet.MembershipView()
		for {
			d, ok := postings.NextDoc()
			if !ok {
				return false, nil
			}
			if view.Test(d) {
				return true, nil
			}
		}
	}

	cached, err := fromSearcher.GetDocSetForTerm(fromField, term)
	if err != nil {
		return false, &IndexIOError{Op: "from-term cached docset", Err: err}
	}
	return fromSet.Intersects(cached), nil
}
