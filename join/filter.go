package join

import "github.com/RoaringBitmap/roaring"

// DocIdIterator yields ascending to-side DocIds local to one leaf (spec.md
// §6.2).
type DocIdIterator interface {
	Next() (DocId, bool)
}

// Filter is the produced interface of spec.md §6.2: a constant-score
// filter that, given a leaf ordinal into the to-side reader, yields either
// nil (no matches in that leaf) or an ascending DocIdIterator local to it.
// It is not cacheable — the join result itself is usually too large to
// cache cheaply; callers should cache the enclosing query instead.
type Filter struct {
	result DocSet
	reader Reader
}

// newFilter packages a finalized result DocSet (composite ID space,
// relative to reader) as the produced Filter.
func newFilter(result DocSet, reader Reader) *Filter {
	return &Filter{result: result, reader: reader}
}

// DocIdSetIterator returns an iterator over the matches that fall within
// leaf's local doc-id range, translated from composite space back to
// leaf-local ids. Returns (nil, nil) if the leaf has no matches.
func (f *Filter) DocIdSetIterator(leaf int) (DocIdIterator, error) {
	if leaf < 0 || leaf >= f.reader.NumSegments() {
		return nil, &BadRequestError{Reason: "leaf ordinal out of range"}
	}
	base := f.reader.Base(leaf)
	maxDoc := f.reader.SegmentMaxDoc(leaf)

	switch s := f.result.(type) {
	case *DenseBitDocSet:
		it := &leafDenseIterator{bm: s.Bitmap(), base: base, limit: base + maxDoc, next: uint32(base)}
		if !it.advance() {
			return nil, nil
		}
		return it, nil
	case *SortedIntDocSet:
		lo := lowerBound(s.Ids(), base)
		hi := lowerBound(s.Ids(), base+maxDoc)
		if lo >= hi {
			return nil, nil
		}
		return &leafSortedIterator{ids: s.Ids(), base: base, pos: lo, hi: hi}, nil
	default:
		return nil, &BadRequestError{Reason: "unsupported DocSet implementation"}
	}
}

// Size returns the total number of to-side matches across every leaf.
func (f *Filter) Size() int { return f.result.Size() }

type leafDenseIterator struct {
	bm          *roaring.Bitmap
	base, limit DocId
	next        uint32
	done        bool
}

func (it *leafDenseIterator) advance() bool {
	for DocId(it.next) < it.limit {
		if it.bm.Contains(it.next) {
			return true
		}
		it.next++
	}
	it.done = true
	return false
}

func (it *leafDenseIterator) Next() (DocId, bool) {
	if it.done || DocId(it.next) >= it.limit {
		return 0, false
	}
	cur := DocId(it.next) - it.base
	it.next++
	it.advance()
	return cur, true
}

type leafSortedIterator struct {
	ids     []int32
	base    DocId
	pos, hi int
}

func (it *leafSortedIterator) Next() (DocId, bool) {
	if it.pos >= it.hi {
		return 0, false
	}
	v := it.ids[it.pos] - it.base
	it.pos++
	return v, true
}

func lowerBound(ids []int32, target DocId) int {
	lo, hi := 0, len(ids)
	for lo < hi {
		mid := (lo + hi) / 2
		if ids[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
