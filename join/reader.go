package join

// Bits is a random-access membership predicate over a bounded DocId range —
// used both for LiveDocs (deleted-doc exclusion) and for a DocSet's
// membership view (§4.2).
type Bits interface {
	Test(docID DocId) bool
}

// LocalPostings iterates the SEGMENT-LOCAL doc ids (not yet rebased into
// composite space) carrying one term in one segment's dictionary.
type LocalPostings interface {
	// Next returns the next local doc id in ascending order, or
	// (0, false) once exhausted.
	Next() (int32, bool)
}

// SegmentDict is one segment's sorted term dictionary for a single field.
// Term indices are stable for the lifetime of one join invocation and are
// sorted ascending by Term(i).
type SegmentDict interface {
	// Len returns the number of distinct terms in this dictionary. A
	// field absent from a segment reports Len() == 0.
	Len() int
	// Term returns the term bytes at sorted position i.
	Term(i int) []byte
	// DocFreq returns this segment's local document frequency for the
	// term at sorted position i.
	DocFreq(i int) int
	// Postings returns a fresh local postings iterator for the term at
	// sorted position i.
	Postings(i int) LocalPostings
}

// Reader is the composite, multi-segment view the postings adapter and
// term cursor rebase against (spec.md §4.1, §3 "PostingsCursor"). Segment
// indices are stable for the Reader's lifetime.
type Reader interface {
	// MaxDoc is the number of doc ids in the composite ID space.
	MaxDoc() int32
	// NumSegments returns the number of sub-readers.
	NumSegments() int
	// Base returns the composite-space base offset of segment i: a
	// local id `d` in segment i rebases to Base(i) + d.
	Base(seg int) int32
	// SegmentMaxDoc returns the local doc count of segment i.
	SegmentMaxDoc(seg int) int32
	// LiveDocs reports deleted documents in composite space. A nil
	// return means every doc id is live.
	LiveDocs() Bits
	// FieldDict returns segment i's dictionary for field. Returns a
	// dictionary with Len() == 0, not an error, when the field is
	// absent from that segment.
	FieldDict(seg int, field string) (SegmentDict, error)
}
