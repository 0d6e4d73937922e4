package join

import (
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// Kind tags the two concrete DocSet variants (spec.md §9 "tagged variant
// plus a small capability interface"). The executor only switches on Kind
// once, to fast-path cloning a bitset-backed set into the accumulator
// (§4.5 rule 2).
type Kind int

const (
	KindSorted Kind = iota
	KindDense
)

// DocSet is an opaque set of DocIds on one side of a join (spec.md §4.2).
// No duplicates; iteration (via MembershipView/AddAllTo) is ascending;
// Size is exact.
type DocSet interface {
	Size() int
	Kind() Kind
	// Intersects reports whether the two sets share any DocId.
	Intersects(other DocSet) bool
	// MembershipView returns a random-access predicate over this set.
	MembershipView() Bits
	// AddAllTo unions every member of this set into dst.
	AddAllTo(dst *roaring.Bitmap)
}

// DenseBitDocSet is a DocSet backed by a roaring bitmap. It is the variant
// the accumulator promotes to once accumulated size crosses
// maxSortedIntSize (§4.5 rule 1).
type DenseBitDocSet struct {
	bm *roaring.Bitmap
}

// NewDenseBitDocSet wraps bm directly (no copy); callers that still hold a
// mutable reference to bm must Clone it first.
func NewDenseBitDocSet(bm *roaring.Bitmap) *DenseBitDocSet {
	if bm == nil {
		bm = roaring.New()
	}
	return &DenseBitDocSet{bm: bm}
}

func (d *DenseBitDocSet) Size() int { return int(d.bm.GetCardinality()) }

func (d *DenseBitDocSet) Kind() Kind { return KindDense }

func (d *DenseBitDocSet) Intersects(other DocSet) bool {
	switch o := other.(type) {
	case *DenseBitDocSet:
		return d.bm.Intersects(o.bm)
	default:
		return intersectsViaMembership(d, other)
	}
}

func (d *DenseBitDocSet) MembershipView() Bits {
	return denseBits{d.bm}
}

func (d *DenseBitDocSet) AddAllTo(dst *roaring.Bitmap) {
	dst.Or(d.bm)
}

// Bitmap exposes the backing roaring bitmap. The join driver uses this to
// clone it into the accumulator's resultBits without re-adding every bit
// (§4.5 rule 2's "clone its backing bitmap").
func (d *DenseBitDocSet) Bitmap() *roaring.Bitmap { return d.bm }

type denseBits struct{ bm *roaring.Bitmap }

func (b denseBits) Test(docID DocId) bool { return b.bm.Contains(uint32(docID)) }

// SortedIntDocSet is a DocSet backed by an ascending, deduplicated slice.
// It is the "sparse list of small sets" entry spec.md §4.5 accumulates
// before a promotion to DenseBitDocSet is warranted.
type SortedIntDocSet struct {
	ids []int32
}

// NewSortedIntDocSet takes ownership of ids, which must already be
// ascending and deduplicated.
func NewSortedIntDocSet(ids []int32) *SortedIntDocSet {
	return &SortedIntDocSet{ids: ids}
}

func (s *SortedIntDocSet) Size() int { return len(s.ids) }

func (s *SortedIntDocSet) Kind() Kind { return KindSorted }

func (s *SortedIntDocSet) Intersects(other DocSet) bool {
	if o, ok := other.(*SortedIntDocSet); ok {
		return sortedIntersects(s.ids, o.ids)
	}
	return intersectsViaMembership(s, other)
}

func (s *SortedIntDocSet) MembershipView() Bits {
	return sortedBits{s.ids}
}

func (s *SortedIntDocSet) AddAllTo(dst *roaring.Bitmap) {
	for _, id := range s.ids {
		dst.Add(uint32(id))
	}
}

// Ids exposes the backing ascending slice (read-only by convention).
func (s *SortedIntDocSet) Ids() []int32 { return s.ids }

type sortedBits struct{ ids []int32 }

func (b sortedBits) Test(docID DocId) bool {
	i := sort.Search(len(b.ids), func(i int) bool { return b.ids[i] >= docID })
	return i < len(b.ids) && b.ids[i] == docID
}

// intersectsViaMembership walks the smaller set against the larger set's
// membership view — used whenever the two operands are different
// concrete variants and a variant-specific fast path doesn't apply.
func intersectsViaMembership(a, b DocSet) bool {
	small, large := a, b
	if large.Size() < small.Size() {
		small, large = large, small
	}
	view := large.MembershipView()
	switch s := small.(type) {
	case *SortedIntDocSet:
		for _, id := range s.ids {
			if view.Test(id) {
				return true
			}
		}
		return false
	case *DenseBitDocSet:
		it := s.bm.Iterator()
		for it.HasNext() {
			if view.Test(DocId(it.Next())) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func sortedIntersects(a, b []int32) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// mergeSortedUnique concatenates and sorts ascending arrays, de-duplicating
// while preserving order — the finalization step of §4.5 when resultList
// has more than one entry and never got promoted to a bitset.
func mergeSortedUnique(lists [][]int32) []int32 {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	all := make([]int32, 0, total)
	for _, l := range lists {
		all = append(all, l...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	out := all[:0]
	var prev int32
	havePrev := false
	for _, v := range all {
		if havePrev && v == prev {
			continue
		}
		out = append(out, v)
		prev = v
		havePrev = true
	}
	return out
}
