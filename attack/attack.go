// Package attack recovers toyrsa plaintext from ciphertext and the public key
// alone. Candidate private exponents are tried, and each decryption is scored
// by the distance of its letter profile to English; the lowest score wins.
//
// The winner is the most English-like candidate among those explored, which
// on short or unusual messages need not be the true plaintext.
package attack

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	toyrsa "github.com/BackendStack21/toyrsa-go"
	"github.com/BackendStack21/toyrsa-go/alphabet"
	"github.com/BackendStack21/toyrsa-go/core"
	"github.com/BackendStack21/toyrsa-go/frequency"
	"github.com/BackendStack21/toyrsa-go/keygen"
	"github.com/BackendStack21/toyrsa-go/numtheory"
)

// DefaultBlockSize is the number of candidates evaluated per worker between
// reductions and context checks.
const DefaultBlockSize = 256

// Analyzer runs the search strategies. The zero value evaluates sequentially.
type Analyzer struct {
	// Workers evaluating candidates in parallel; values below 2 mean sequential.
	Workers int
	// BlockSize is the per-worker batch size; 0 means DefaultBlockSize.
	BlockSize int
}

// NewAnalyzer returns an analyzer configured from params.
func NewAnalyzer(params core.ParamSet) *Analyzer {
	return &Analyzer{Workers: params.EffectiveWorkers()}
}

// Exhaustive runs AnalyzeExhaustive sequentially without a deadline.
func Exhaustive(ct toyrsa.Ciphertext, e, n, searchCap int64) (toyrsa.CryptanalysisResult, error) {
	var a Analyzer
	return a.AnalyzeExhaustive(context.Background(), ct, e, n, searchCap)
}

// PhiRestricted runs AnalyzePhiRestricted sequentially without a deadline.
func PhiRestricted(ct toyrsa.Ciphertext, e, n int64, attemptCap int, mseThreshold float64) (toyrsa.CryptanalysisResult, error) {
	var a Analyzer
	return a.AnalyzePhiRestricted(context.Background(), ct, e, n, attemptCap, mseThreshold)
}

// Analyze dispatches to the strategy named s using the caps in params.
func (a *Analyzer) Analyze(ctx context.Context, s toyrsa.Strategy, ct toyrsa.Ciphertext, pk toyrsa.PublicKey, params core.ParamSet) (toyrsa.CryptanalysisResult, error) {
	switch s {
	case toyrsa.StrategyExhaustive:
		return a.AnalyzeExhaustive(ctx, ct, pk.E, pk.N, params.SearchCap)
	case toyrsa.StrategyPhiRestricted, "":
		return a.AnalyzePhiRestricted(ctx, ct, pk.E, pk.N, params.AttemptCap, params.MSEThreshold)
	default:
		return toyrsa.NoCandidate(s), errors.Errorf("unknown strategy: %s", s)
	}
}

// AnalyzeExhaustive tries every private exponent d with 1 <= d < min(searchCap, n).
// A candidate is rejected as soon as one token decrypts outside [0, 26].
// Ties keep the smallest d.
func (a *Analyzer) AnalyzeExhaustive(ctx context.Context, ct toyrsa.Ciphertext, e, n, searchCap int64) (toyrsa.CryptanalysisResult, error) {
	res := toyrsa.NoCandidate(toyrsa.StrategyExhaustive)
	if err := keygen.ValidatePublicKey(toyrsa.PublicKey{E: e, N: n}); err != nil {
		return res, err
	}
	if searchCap < 1 {
		return res, errors.Errorf("search cap must be positive, got %d", searchCap)
	}
	if len(ct) == 0 {
		return res, nil
	}

	maxD := searchCap
	if n < maxD {
		maxD = n
	}
	total := int(maxD - 1)

	eval := func(i int, buf []int64) candidate {
		d := int64(i) + 1
		return evaluate(ct, d, n, buf)
	}
	return a.scan(ctx, res, total, len(ct), eval, nil)
}

// AnalyzePhiRestricted scans totient guesses phi in [floor(n/2), n].
// Guesses sharing a factor with e are skipped; otherwise d = e^-1 mod phi is
// tried. The scan stops early once a candidate scores below mseThreshold, and
// after attemptCap guesses in any case. Attempts counts every guess examined,
// skipped ones included.
func (a *Analyzer) AnalyzePhiRestricted(ctx context.Context, ct toyrsa.Ciphertext, e, n int64, attemptCap int, mseThreshold float64) (toyrsa.CryptanalysisResult, error) {
	res := toyrsa.NoCandidate(toyrsa.StrategyPhiRestricted)
	if err := keygen.ValidatePublicKey(toyrsa.PublicKey{E: e, N: n}); err != nil {
		return res, err
	}
	if attemptCap < 1 {
		return res, errors.Errorf("attempt cap must be positive, got %d", attemptCap)
	}
	if len(ct) == 0 {
		return res, nil
	}

	low := n / 2
	span := n - low + 1
	total := attemptCap
	if span < int64(total) {
		total = int(span)
	}

	eval := func(i int, buf []int64) candidate {
		phi := low + int64(i)
		if numtheory.GCD(e, phi) != 1 {
			return candidate{outcome: outcomeNotInvertible, phi: phi}
		}
		d, err := numtheory.ModInverse(e, phi)
		if err != nil {
			return candidate{outcome: outcomeNotInvertible, phi: phi}
		}
		c := evaluate(ct, d, n, buf)
		c.phi = phi
		return c
	}
	stop := func(c candidate) bool {
		return c.mse < mseThreshold
	}
	return a.scan(ctx, res, total, len(ct), eval, stop)
}

// outcome tags the evaluation of one candidate.
type outcome uint8

const (
	outcomeValid outcome = iota
	outcomeOutOfRange
	outcomeNotInvertible
)

type candidate struct {
	outcome   outcome
	d, phi    int64
	plaintext string
	mse       float64
}

// evaluate decrypts ct with d into buf and scores the result.
func evaluate(ct toyrsa.Ciphertext, d, n int64, buf []int64) candidate {
	buf = buf[:0]
	for _, c := range ct {
		m := numtheory.MustModPow(c, d, n)
		if !alphabet.Valid(m) {
			return candidate{outcome: outcomeOutOfRange, d: d}
		}
		buf = append(buf, m)
	}
	return candidate{
		outcome:   outcomeValid,
		d:         d,
		plaintext: alphabet.Decode(buf),
		mse:       frequency.ScoreCodes(buf),
	}
}

// scan evaluates candidates 0..total-1 in blocks and reduces each block in
// index order, so the result does not depend on the number of workers.
// stop, if set, is consulted for valid candidates after they are recorded.
func (a *Analyzer) scan(ctx context.Context, res toyrsa.CryptanalysisResult, total, bufLen int, eval func(int, []int64) candidate, stop func(candidate) bool) (toyrsa.CryptanalysisResult, error) {
	workers := a.Workers
	if workers < 1 {
		workers = 1
	}
	blockSize := a.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	block := make([]candidate, blockSize*workers)
	bufs := make([][]int64, workers)
	for w := range bufs {
		bufs[w] = make([]int64, 0, bufLen)
	}

	for start := 0; start < total; start += len(block) {
		if err := ctx.Err(); err != nil {
			res.Stop = toyrsa.StopCanceled
			return res, err
		}

		size := total - start
		if size > len(block) {
			size = len(block)
		}
		a.evalBlock(block[:size], start, workers, bufs, eval)

		for _, c := range block[:size] {
			res.Attempts++
			switch c.outcome {
			case outcomeNotInvertible:
				res.NonInvertible++
				continue
			case outcomeOutOfRange:
				res.Rejected++
				continue
			}
			if c.mse < res.MSE {
				res.Found = true
				res.Plaintext = c.plaintext
				res.GuessedD = c.d
				res.GuessedPhi = c.phi
				res.MSE = c.mse
			}
			if stop != nil && stop(c) {
				res.Stop = toyrsa.StopThreshold
				return res, nil
			}
		}
	}
	res.Stop = toyrsa.StopExhausted
	return res, nil
}

func (a *Analyzer) evalBlock(block []candidate, start, workers int, bufs [][]int64, eval func(int, []int64) candidate) {
	if workers == 1 || len(block) < workers {
		for i := range block {
			block[i] = eval(start+i, bufs[0])
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(block); i += workers {
				block[i] = eval(start+i, bufs[w])
			}
		}(w)
	}
	wg.Wait()
}
