// Package join implements the term-walking join executor: given a `from`
// field, a `to` field, and a subquery Q defining a from-side document set,
// it walks the shared term values between the two fields and builds the
// set of to-side documents that share at least one term value with the
// from-side matches of Q.
//
// Everything outside this package — query parsing, searcher lifecycle,
// cache implementations, result scoring — is an external collaborator
// this package only consumes through the interfaces declared here
// (Searcher, Reader, SegmentDict, Bits). Package join never imports the
// surrounding query engine; the engine imports join and satisfies these
// interfaces instead, so the dependency runs one way.
package join

import "math"

// DocId identifies a document within a searcher's composite ID space —
// ascending across all of a reader's segments, never reused within one
// invocation.
type DocId = int32

// NoMoreDocs is the sentinel returned once an iterator is exhausted.
const NoMoreDocs DocId = math.MaxInt32
