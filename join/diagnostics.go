package join

// DebugSink is the opaque key/value accumulator diagnostics are emitted to
// when enabled (spec.md §6.3/§6.4).
type DebugSink interface {
	Add(label string, key string, value any)
}

// Counters are the invocation-scoped diagnostic fields of spec.md §6.4.
// They accumulate for the lifetime of one join invocation and are
// discarded (never emitted) if the invocation errors (spec.md §7).
type Counters struct {
	ElapsedMS           int64
	FromSetSize         int
	ToSetSize           int
	FromTermCount       int
	FromTermTotalDf     int64
	FromTermDirectCount int
	FromTermHits        int
	FromTermHitsTotalDf int64
	ToTermHits          int
	ToTermHitsTotalDf   int64
	ToTermDirectCount   int
	SmallSetsDeferred   int
	ToSetDocsAdded      int
}

// Emit reports every counter to sink under label "join". A nil sink is a
// no-op, so callers never need to branch on whether debugging is enabled.
func (c Counters) Emit(sink DebugSink) {
	if sink == nil {
		return
	}
	const label = "join"
	sink.Add(label, "elapsedMs", c.ElapsedMS)
	sink.Add(label, "fromSetSize", c.FromSetSize)
	sink.Add(label, "toSetSize", c.ToSetSize)
	sink.Add(label, "fromTermCount", c.FromTermCount)
	sink.Add(label, "fromTermTotalDf", c.FromTermTotalDf)
	sink.Add(label, "fromTermDirectCount", c.FromTermDirectCount)
	sink.Add(label, "fromTermHits", c.FromTermHits)
	sink.Add(label, "fromTermHitsTotalDf", c.FromTermHitsTotalDf)
	sink.Add(label, "toTermHits", c.ToTermHits)
	sink.Add(label, "toTermHitsTotalDf", c.ToTermHitsTotalDf)
	sink.Add(label, "toTermDirectCount", c.ToTermDirectCount)
	sink.Add(label, "smallSetsDeferred", c.SmallSetsDeferred)
	sink.Add(label, "toSetDocsAdded", c.ToSetDocsAdded)
}
