/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package search implements the SearchDriver component: it orchestrates
// a PasswordSource and a HandlerVerifier, running either a sequential
// loop with optional case permutation (Wordlist, Incremental) or a
// striped parallel loop (Pattern), and reports a terminal Outcome.
//
// An eight-row dispatch table (runCrackRev2, runCrackRev2_of,
// runCrackRev2_o, runCrackRev3, ...) collapses here into two loops —
// runSequential and runStriped — parameterized by a small verify closure
// built once in Run from (revision, workWithUser, knownUserPassword);
// the revision split already lives inside verifier.Verifier, so a
// literal eight-function dispatch table would just be duplicating that
// switch a second time.
package search

import (
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/atomic"

	pdfcrack "github.com/Dellle/pdfcrack-mp"
	"github.com/Dellle/pdfcrack-mp/common"
	"github.com/Dellle/pdfcrack-mp/internal/source"
	"github.com/Dellle/pdfcrack-mp/internal/verifier"
)

// StripeSize is the number of pattern indices assigned to one
// parallel-for round.
const StripeSize = 10000

// DefaultNumThreads matches the original tool's default worker count.
const DefaultNumThreads = 4

// ProgressFunc is invoked between sequential iterations and at stripe
// boundaries with the number of candidates processed so far and (for
// bounded sources) the total space size. It is the Go-idiomatic
// equivalent of the original tool's printProgress(); a nil ProgressFunc
// or SearchContext.Quiet disables reporting entirely.
type ProgressFunc func(processed uint64, total uint64, haveTotal bool)

// SearchContext is the per-run, process-wide state the driver owns:
// EncData-derived verifier, the canonical workspace template, thread
// count and the shared first-hit election fields. One SearchContext
// drives exactly one Run.
type SearchContext struct {
	Verifier   *verifier.Verifier
	Workspace  *pdfcrack.EncKeyWorkspace
	NumThreads int
	Permutate  bool
	Quiet      bool
	Progress   ProgressFunc

	nrProcessed atomic.Uint64
	crackDone   atomic.Bool
	cancelled   atomic.Bool

	mu            sync.Mutex
	foundIndex    int64 // -1 until a match is recorded
	foundPassword []byte
	foundWhich    pdfcrack.Which
}

// NewSearchContext builds a SearchContext for enc. numThreads <= 0
// falls back to DefaultNumThreads.
func NewSearchContext(enc *pdfcrack.EncData, numThreads int, permutate, quiet bool, progress ProgressFunc) (*SearchContext, error) {
	v, err := verifier.New(enc)
	if err != nil {
		return nil, err
	}
	if numThreads <= 0 {
		numThreads = DefaultNumThreads
	}
	return &SearchContext{
		Verifier:   v,
		Workspace:  pdfcrack.NewEncKeyWorkspace(enc),
		NumThreads: numThreads,
		Permutate:  permutate,
		Quiet:      quiet,
		Progress:   progress,
		foundIndex: -1,
	}, nil
}

// Cancel requests cooperative termination; the driver stops at the next
// stripe boundary (Pattern sources) or after the in-flight candidate
// (sequential sources).
func (ctx *SearchContext) Cancel() { ctx.cancelled.Store(true); ctx.crackDone.Store(true) }

// NrProcessed returns the number of candidates verified so far.
func (ctx *SearchContext) NrProcessed() uint64 { return ctx.nrProcessed.Load() }

// verifyFunc tests one candidate and, on a match, returns the password
// that should be reported and which predicate matched. For a revision-2/3
// owner match that password is the recovered user pad, still padded;
// foundOutcome strips the padding from owner matches.
type verifyFunc func(cand []byte, ws *pdfcrack.EncKeyWorkspace) (matched bool, recovered []byte, which pdfcrack.Which)

func (ctx *SearchContext) buildVerifyFunc(workWithUser bool, knownUserPw []byte) verifyFunc {
	if workWithUser {
		return func(cand []byte, ws *pdfcrack.EncKeyWorkspace) (bool, []byte, pdfcrack.Which) {
			return ctx.Verifier.IsUserPassword(cand, ws), cand, pdfcrack.WhichUser
		}
	}
	return func(cand []byte, ws *pdfcrack.EncKeyWorkspace) (bool, []byte, pdfcrack.Which) {
		ok, recovered := ctx.Verifier.IsOwnerPassword(cand, ws, knownUserPw)
		return ok, recovered, pdfcrack.WhichOwner
	}
}

// Run drives src to completion or first match. workWithUser selects the
// user-password predicate; otherwise the owner-password predicate is
// used, fed knownUserPw when the caller already recovered it (the
// "_of" dispatch rows).
func (ctx *SearchContext) Run(src source.Source, workWithUser bool, knownUserPw []byte) pdfcrack.Outcome {
	verify := ctx.buildVerifyFunc(workWithUser, knownUserPw)

	if idx, ok := src.(source.Indexable); ok {
		return ctx.runStriped(idx, verify)
	}
	return ctx.runSequential(src, verify)
}

// runSequential implements the Wordlist/Incremental pipelines: a single
// worker loop with an inner case-permutation retry.
func (ctx *SearchContext) runSequential(src source.Source, verify verifyFunc) pdfcrack.Outcome {
	ws := ctx.Workspace

	for {
		if ctx.crackDone.Load() {
			return ctx.cancelledOutcome()
		}
		cand, ok := src.Next()
		if !ok {
			break
		}
		ctx.nrProcessed.Add(1)

		if matched, recovered, which := verify(cand, ws); matched {
			return ctx.foundOutcome(recovered, which)
		}

		if ctx.Permutate {
			if permuted, changed := togglePermutation(cand); changed {
				if matched, recovered, which := verify(permuted, ws); matched {
					return ctx.foundOutcome(recovered, which)
				}
			}
		}

		if ctx.Progress != nil && !ctx.Quiet {
			total, haveTotal := src.Count()
			ctx.Progress(ctx.nrProcessed.Load(), total, haveTotal)
		}
	}
	return pdfcrack.Outcome{Status: pdfcrack.StatusExhausted}
}

// runStriped implements the Pattern pipeline: a striped parallel loop
// over the indexable space, StripeSize indices per round, with a
// mutex-guarded first-hit election that always keeps the lowest index.
func (ctx *SearchContext) runStriped(idx source.Indexable, verify verifyFunc) pdfcrack.Outcome {
	total, _ := idx.Count()

	for s := uint64(0); s < total; s += StripeSize {
		end := s + StripeSize
		if end > total {
			end = total
		}

		p := pool.New().WithMaxGoroutines(ctx.NumThreads)
		for i := s; i < end; i++ {
			innerindex := i
			p.Go(func() {
				ctx.verifyStripeIndex(idx, verify, innerindex)
			})
		}
		p.Wait()

		ctx.nrProcessed.Add(end - s)
		if ctx.Progress != nil && !ctx.Quiet {
			ctx.Progress(ctx.nrProcessed.Load(), total, true)
		}

		if ctx.crackDone.Load() {
			break
		}
	}

	ctx.mu.Lock()
	found := ctx.foundIndex >= 0
	password := ctx.foundPassword
	which := ctx.foundWhich
	ctx.mu.Unlock()

	if found {
		return ctx.foundOutcome(password, which)
	}
	if ctx.cancelled.Load() {
		return pdfcrack.Outcome{Status: pdfcrack.StatusCancelled}
	}
	return pdfcrack.Outcome{Status: pdfcrack.StatusExhausted}
}

func (ctx *SearchContext) verifyStripeIndex(idx source.Indexable, verify verifyFunc, innerindex uint64) {
	if ctx.crackDone.Load() {
		// Once a hit is recorded, only indices below it can still win.
		ctx.mu.Lock()
		found := ctx.foundIndex
		ctx.mu.Unlock()
		if found < 0 || int64(innerindex) > found {
			return
		}
	}
	cand, ok := idx.At(innerindex)
	if !ok {
		return
	}

	ws := ctx.Workspace.Clone()
	matched, recovered, which := verify(cand, ws)
	if !matched {
		return
	}

	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if ctx.foundIndex < 0 || int64(innerindex) < ctx.foundIndex {
		ctx.foundIndex = int64(innerindex)
		ctx.foundPassword = recovered
		ctx.foundWhich = which
		common.Log.Info("match recorded at index %d", innerindex)
	}
	ctx.crackDone.Store(true)
}

func (ctx *SearchContext) foundOutcome(recovered []byte, which pdfcrack.Which) pdfcrack.Outcome {
	password := recovered
	if which == pdfcrack.WhichOwner {
		password = pdfcrack.StripPadding(recovered)
	}
	return pdfcrack.Outcome{
		Status:   pdfcrack.StatusFound,
		Password: password,
		Which:    which,
	}
}

func (ctx *SearchContext) cancelledOutcome() pdfcrack.Outcome {
	if ctx.cancelled.Load() {
		return pdfcrack.Outcome{Status: pdfcrack.StatusCancelled}
	}
	return pdfcrack.Outcome{Status: pdfcrack.StatusExhausted}
}

// togglePermutation returns cand with its first byte toggled to its
// ISO-Latin-1 uppercase form, and whether that changed anything. It is
// the Go equivalent of the original tool's do_permutate/isolat1ToUpper:
// it only ever tries the uppercased form once, never a lowercased one,
// and the extended range 0xe0..0xf6 is folded to 0xc0..0xd6 by
// subtracting 0x20 rather than through the C locale's toupper.
func togglePermutation(cand []byte) (permuted []byte, changed bool) {
	if len(cand) == 0 {
		return cand, false
	}
	upper, ok := latin1ToUpper(cand[0])
	if !ok {
		return cand, false
	}
	out := append([]byte(nil), cand...)
	out[0] = upper
	return out, true
}

func latin1ToUpper(b byte) (byte, bool) {
	switch {
	case b >= 0xe0 && b <= 0xf6:
		return b - 0x20, true
	case b >= 'a' && b <= 'z':
		return b - 0x20, true
	default:
		return b, false
	}
}
