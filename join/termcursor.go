package join

import (
	"bytes"
	"sort"
)

// SeekResult is the outcome of TermCursor.SeekCeil (spec.md §4.3).
type SeekResult int

const (
	SeekFound SeekResult = iota
	SeekNotFound
	SeekEnd
)

// TermCursor is a positioned enumeration over the sorted term dictionary
// of one field, merged across every segment of a Reader (spec.md §4.3).
type TermCursor interface {
	// SeekCeil positions the cursor at the smallest term >= target,
	// across all segments, reporting whether it landed exactly on
	// target, past it, or ran out of terms.
	SeekCeil(target []byte) (SeekResult, error)
	// Next advances to the next distinct term in lexicographic order.
	// Returns (nil, false) once exhausted.
	Next() ([]byte, bool, error)
	// Current returns the term the cursor is presently positioned on
	// without advancing — typically used right after SeekCeil.
	Current() ([]byte, bool, error)
	// DocFreq returns the summed document frequency, across every
	// contributing segment, of the currently positioned term.
	DocFreq() int
	// Postings opens a fresh Postings Adapter over the currently
	// positioned term.
	Postings() (PostingsCursor, error)
}

// segCursor tracks one segment's walk through its sorted dictionary for
// one field.
type segCursor struct {
	seg  int
	dict SegmentDict
	base DocId
	// next is the index of the next not-yet-consumed term; 0 before
	// the dictionary has been entered.
	next int
}

func (c *segCursor) hasNext() bool { return c.next < c.dict.Len() }

func (c *segCursor) peek() []byte { return c.dict.Term(c.next) }

// compositeTermCursor merges the per-segment dictionaries of one field via
// a linear min-scan across the (typically few) active segment cursors —
// see DESIGN.md for why a heap isn't worth it here.
type compositeTermCursor struct {
	segs []*segCursor
	// contributing holds, after a successful position, the segment
	// indices (into segs) that carry the current term.
	contributing []int
	current      []byte
	positioned   bool
}

// NewTermCursor builds the composite Term Cursor over field across every
// segment of r that actually carries it. Segments lacking the field are
// skipped per spec.md §4.1 ("sub-streams with no postings are skipped").
func NewTermCursor(r Reader, field string) (TermCursor, error) {
	segs := make([]*segCursor, 0, r.NumSegments())
	for i := 0; i < r.NumSegments(); i++ {
		dict, err := r.FieldDict(i, field)
		if err != nil {
			return nil, &IndexIOError{Op: "FieldDict", Err: err}
		}
		if dict.Len() == 0 {
			continue
		}
		segs = append(segs, &segCursor{seg: i, dict: dict, base: r.Base(i), next: 0})
	}
	return &compositeTermCursor{segs: segs}, nil
}

// advance picks the lexicographically smallest candidate among active
// segment cursors, consumes it from every segment carrying it, and
// records the contributing set. It underlies both Next and the tail of
// SeekCeil.
func (c *compositeTermCursor) advance() {
	var smallest []byte
	found := false
	for _, sc := range c.segs {
		if !sc.hasNext() {
			continue
		}
		t := sc.peek()
		if !found || bytes.Compare(t, smallest) < 0 {
			smallest = t
			found = true
		}
	}
	if !found {
		c.current = nil
		c.contributing = nil
		c.positioned = false
		return
	}
	c.contributing = c.contributing[:0]
	for idx, sc := range c.segs {
		if sc.hasNext() && bytes.Equal(sc.peek(), smallest) {
			c.contributing = append(c.contributing, idx)
			sc.next++
		}
	}
	c.current = smallest
	c.positioned = true
}

func (c *compositeTermCursor) Next() ([]byte, bool, error) {
	c.advance()
	if !c.positioned {
		return nil, false, nil
	}
	return c.current, true, nil
}

func (c *compositeTermCursor) Current() ([]byte, bool, error) {
	return c.current, c.positioned, nil
}

func (c *compositeTermCursor) SeekCeil(target []byte) (SeekResult, error) {
	for _, sc := range c.segs {
		// sort.Search finds the smallest index whose term is >= target;
		// `next` is set so the next peek() returns that term.
		sc.next = sort.Search(sc.dict.Len(), func(i int) bool {
			return bytes.Compare(sc.dict.Term(i), target) >= 0
		})
	}
	c.advance()
	if !c.positioned {
		return SeekEnd, nil
	}
	if bytes.Equal(c.current, target) {
		return SeekFound, nil
	}
	return SeekNotFound, nil
}

func (c *compositeTermCursor) DocFreq() int {
	if !c.positioned {
		return 0
	}
	df := 0
	for _, idx := range c.contributing {
		sc := c.segs[idx]
		df += sc.dict.DocFreq(sc.next - 1)
	}
	return df
}

func (c *compositeTermCursor) Postings() (PostingsCursor, error) {
	if !c.positioned {
		return newCompositePostings(nil), nil
	}
	subs := make([]subPostings, 0, len(c.contributing))
	for _, idx := range c.contributing {
		sc := c.segs[idx]
		termIdx := sc.next - 1
		subs = append(subs, subPostings{
			it:   sc.dict.Postings(termIdx),
			base: sc.base,
		})
	}
	return newCompositePostings(subs), nil
}
