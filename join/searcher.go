package join

// Query is an opaque, already-parsed subquery handle. Package join never
// interprets it; it is handed back to Searcher.GetDocSet verbatim. Query
// parsing, rewrite, and evaluation policy belong entirely to the
// surrounding query engine (spec.md §1 "out of scope").
type Query any

// Searcher is the caching facade a join invocation consumes (spec.md
// §6.3). Implementations must memoize both methods; the executor never
// writes to whatever cache backs them, it only reads.
type Searcher interface {
	// Reader exposes the composite multi-segment view backing this
	// searcher.
	Reader() Reader

	// GetDocSet evaluates (or fetches from cache) the DocSet matched by
	// an already-parsed subquery.
	GetDocSet(q Query) (DocSet, error)

	// GetDocSetForTerm evaluates (or fetches from cache) the DocSet of
	// documents carrying `term` in `field`.
	GetDocSetForTerm(field string, term []byte) (DocSet, error)

	// Acquire takes a reference; Release gives one back. A searcher
	// must not be used once its last reference is released.
	Acquire()
	Release()
}

// ShardResolver opens a named shard's Searcher for a cross-shard join
// (spec.md §6.1 `fromIndex`). Open returns an already-Acquired reference;
// the caller must Release it.
type ShardResolver interface {
	Open(name string) (Searcher, error)
}
