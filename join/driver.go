package join

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config is the construction-time configuration of spec.md §6.1, plus two
// additive fields SPEC_FULL.md introduces: an optional term-prefix
// restriction on the from-field enumeration (spec.md §4.3) and an
// explicit Thresholds override used by callers (and the
// threshold-invariance property test of spec.md §8) to pin the adaptive
// routing knobs instead of accepting the computed defaults.
type Config struct {
	From      string
	To        string
	FromIndex string // shard/core name; "" means same core as the to-side
	Q         Query

	// Prefix restricts from-field enumeration to terms sharing this
	// byte prefix (spec.md §4.3 final paragraph). Nil/empty means no
	// restriction.
	Prefix []byte

	// Thresholds overrides the computed defaults of spec.md §4.6 when
	// non-nil.
	Thresholds *Thresholds

	// FromCoreOpenTime folds the remote shard's last-reopen timestamp
	// into CacheKey, per spec.md §9's adopted-but-clock-source-left-open
	// identity contract. The caller owns the clock.
	FromCoreOpenTime int64

	// Debug, if non-nil, receives the diagnostic counters of spec.md
	// §6.4 once the invocation completes successfully.
	Debug DebugSink
}

// CacheKey derives an identity string suitable for caching the enclosing
// query (the join result itself is not cacheable — spec.md §6.2). Two
// Configs produce equal keys only when FromCoreOpenTime also matches, so a
// remote shard reopen invalidates any cache keyed on it.
func (c Config) CacheKey() string {
	return fmt.Sprintf("join(from=%s,to=%s,fromIndex=%s,prefix=%x,openTime=%d,q=%v)",
		c.From, c.To, c.FromIndex, c.Prefix, c.FromCoreOpenTime, c.Q)
}

// Execute runs one join invocation to completion on the calling goroutine
// (spec.md §5 "single-threaded cooperative"). It acquires exactly the
// searcher references it needs and releases every one of them on every
// exit path, including cancellation and error.
func Execute(ctx context.Context, toSearcher Searcher, shards ShardResolver, cfg Config) (*Filter, Counters, error) {
	var diag Counters
	start := time.Now()

	if cfg.From == "" || cfg.To == "" {
		return nil, diag, &BadRequestError{Reason: "from and to fields are both required"}
	}

	fromSearcher, release, err := resolveFromSearcher(toSearcher, shards, cfg)
	if err != nil {
		return nil, diag, err
	}
	defer release()

	fromSet, err := fromSearcher.GetDocSet(cfg.Q)
	if err != nil {
		return nil, diag, &IndexIOError{Op: "evaluate Q", Err: err}
	}

	th := computeThresholds(fromSearcher.Reader().MaxDoc(), toSearcher.Reader().MaxDoc())
	if cfg.Thresholds != nil {
		th = *cfg.Thresholds
	}

	fromCursor, err := NewTermCursor(fromSearcher.Reader(), cfg.From)
	if err != nil {
		return nil, diag, err
	}
	toCursor, err := NewTermCursor(toSearcher.Reader(), cfg.To)
	if err != nil {
		return nil, diag, err
	}

	acc := newAccumulator(th)
	live := toSearcher.Reader().LiveDocs()

	result, err := runOuterLoop(ctx, fromSearcher, toSearcher, cfg, fromCursor, toCursor, fromSet, th, live, acc, &diag)
	if err != nil {
		return nil, Counters{}, err
	}

	diag.FromSetSize = fromSet.Size()
	diag.ToSetSize = result.Size()
	diag.ElapsedMS = time.Since(start).Milliseconds()

	slog.Info("join complete",
		slog.String("from", cfg.From), slog.String("to", cfg.To),
		slog.Int64("elapsedMs", diag.ElapsedMS),
		slog.Int("fromSetSize", diag.FromSetSize), slog.Int("toSetSize", diag.ToSetSize))
	diag.Emit(cfg.Debug)

	return newFilter(result, toSearcher.Reader()), diag, nil
}

// resolveFromSearcher implements spec.md §3's lifecycle rule ("if the
// from-side and to-side share a core, a single searcher is used for
// both") and the cross-shard open-once policy of spec.md §5: on success,
// closure is guaranteed via the returned release func, which Execute
// defers; the cross-shard release func is idempotent. On an error path
// the toSearcher reference is released here and the release func is nil.
func resolveFromSearcher(toSearcher Searcher, shards ShardResolver, cfg Config) (Searcher, func(), error) {
	toSearcher.Acquire()
	if cfg.FromIndex == "" {
		return toSearcher, func() { toSearcher.Release() }, nil
	}
	if shards == nil {
		toSearcher.Release()
		return nil, nil, &BadRequestError{Reason: "cross-shard join requested but no shard resolver was supplied"}
	}
	fromSearcher, err := shards.Open(cfg.FromIndex)
	if err != nil {
		toSearcher.Release()
		return nil, nil, &BadRequestError{Reason: fmt.Sprintf("unknown cross-shard target %q: %v", cfg.FromIndex, err)}
	}
	released := false
	return fromSearcher, func() {
		if released {
			return
		}
		released = true
		fromSearcher.Release()
		toSearcher.Release()
	}, nil
}

// runOuterLoop is the Iterating/Draining states of the spec.md §4.7 state
// machine. Init (cursor setup) and Done (diagnostics emission) live in
// Execute; this function owns only the per-term walk and finalization.
// There is no separate empty-dictionary check: an empty from-field
// dictionary yields no first term, and an empty to-field dictionary makes
// the first SeekCeil return SeekEnd, so either ends with the empty result.
func runOuterLoop(
	ctx context.Context,
	fromSearcher, toSearcher Searcher,
	cfg Config,
	fromCursor, toCursor TermCursor,
	fromSet DocSet,
	th Thresholds,
	live Bits,
	acc *accumulator,
	diag *Counters,
) (DocSet, error) {
	term, ok, err := firstFromTerm(fromCursor, cfg.Prefix)
	if err != nil {
		return nil, err
	}

outer:
	for ok {
		if len(cfg.Prefix) > 0 && !bytes.HasPrefix(term, cfg.Prefix) {
			break
		}

		diag.FromTermCount++
		dfFrom := fromCursor.DocFreq()
		diag.FromTermTotalDf += int64(dfFrom)

		hit, err := classify(fromSearcher, cfg.From, term, fromCursor, dfFrom, fromSet, th, diag)
		if err != nil {
			return nil, err
		}
		if hit {
			// Cancellation is observed at the start of each to-side
			// term iteration, per spec.md §5.
			select {
			case <-ctx.Done():
				return nil, ErrAborted
			default:
			}

			diag.FromTermHits++
			diag.FromTermHitsTotalDf += int64(dfFrom)

			seekRes, err := toCursor.SeekCeil(term)
			if err != nil {
				return nil, &IndexIOError{Op: "to-cursor seekCeil", Err: err}
			}
			switch seekRes {
			case SeekEnd:
				break outer
			case SeekFound:
				dfTo := toCursor.DocFreq()
				diag.ToTermHits++
				diag.ToTermHitsTotalDf += int64(dfTo)
				if err := acc.route(toSearcher, cfg.To, term, toCursor, dfTo, live, diag); err != nil {
					return nil, err
				}
			case SeekNotFound:
				// Skip; this to-term doesn't exist.
			}
		}

		term, ok, err = fromCursor.Next()
		if err != nil {
			return nil, &IndexIOError{Op: "from-cursor next", Err: err}
		}
	}

	return acc.finalize(), nil
}

// firstFromTerm positions fromCursor at the first term to examine: the
// prefix itself (via seekCeil) when a prefix restriction is configured,
// or the dictionary's first term otherwise.
func firstFromTerm(fromCursor TermCursor, prefix []byte) ([]byte, bool, error) {
	if len(prefix) == 0 {
		return fromCursor.Next()
	}
	res, err := fromCursor.SeekCeil(prefix)
	if err != nil {
		return nil, false, &IndexIOError{Op: "from-cursor seekCeil(prefix)", Err: err}
	}
	if res == SeekEnd {
		return nil, false, nil
	}
	term, ok, err := fromCursor.Current()
	return term, ok, err
}
