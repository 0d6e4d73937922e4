package join

// PostingsCursor presents a single ascending DocId stream over a (field,
// term) pair in composite ID space (spec.md §4.1). Forward-only;
// repositioning requires a fresh cursor.
type PostingsCursor interface {
	// NextDoc returns the next composite DocId, or (0, false) once
	// exhausted. Behavior after a false return is undefined.
	NextDoc() (DocId, bool)
}

// subPostings rebases one segment's LocalPostings into composite space.
type subPostings struct {
	it   LocalPostings
	base DocId
}

// compositePostings concatenates per-segment sub-streams in ascending base
// order. Because segment bases are disjoint and monotonic, the
// concatenation is itself strictly ascending — no merge step is needed.
type compositePostings struct {
	subs []subPostings
	cur  int
}

// newCompositePostings builds the Postings Adapter over the segments that
// carry the current term. Segments with no postings for the term should
// simply be omitted by the caller; an empty subs list is a valid,
// immediately-exhausted cursor.
func newCompositePostings(subs []subPostings) PostingsCursor {
	return &compositePostings{subs: subs}
}

func (p *compositePostings) NextDoc() (DocId, bool) {
	for p.cur < len(p.subs) {
		if local, ok := p.subs[p.cur].it.Next(); ok {
			return DocId(local) + p.subs[p.cur].base, true
		}
		p.cur++
	}
	return 0, false
}

// liveFilteredPostings wraps a PostingsCursor, silently skipping DocIds
// excluded by a LiveDocs predicate (spec.md §4.1 "filtered DocIds are
// skipped silently"). Used by the to-side accumulator's direct-write route
// (§4.5 rule 3), which must exclude deleted docs explicitly.
type liveFilteredPostings struct {
	inner PostingsCursor
	live  Bits
}

func newLiveFilteredPostings(inner PostingsCursor, live Bits) PostingsCursor {
	if live == nil {
		return inner
	}
	return &liveFilteredPostings{inner: inner, live: live}
}

func (p *liveFilteredPostings) NextDoc() (DocId, bool) {
	for {
		d, ok := p.inner.NextDoc()
		if !ok {
			return 0, false
		}
		if p.live.Test(d) {
			return d, true
		}
	}
}
