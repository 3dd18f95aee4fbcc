package toyrsa

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// AlphabetSize is the number of encodable symbols: A-Z plus space.
	AlphabetSize = 27
	// SpaceCode is the integer assigned to the space symbol.
	SpaceCode = 26
	// MinModulus is the smallest modulus that can carry every symbol code.
	MinModulus = 29
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNotInvertible is returned when gcd(e, phi) != 1.
	ErrNotInvertible = errors.New("value is not invertible modulo phi")
	// ErrNoPrimeInRange is returned when prime sampling cannot succeed.
	ErrNoPrimeInRange = errors.New("no prime in range")
	// ErrNoValidExponent is returned when no public exponent is coprime to phi.
	ErrNoValidExponent = errors.New("no valid public exponent")
	// ErrInvalidCiphertextToken marks a ciphertext token that could not be decoded.
	ErrInvalidCiphertextToken = errors.New("invalid ciphertext token")
	// ErrModulusTooSmall is returned when n cannot carry the 27-symbol alphabet.
	ErrModulusTooSmall = errors.New("modulus too small for alphabet")
)

// =============================================================================
// Key Types
// =============================================================================

// PublicKey is the public half of a key pair.
type PublicKey struct {
	E int64 `json:"e"`
	N int64 `json:"n"`
}

// PrivateKey is the private half of a key pair.
type PrivateKey struct {
	D int64 `json:"d"`
	N int64 `json:"n"`
}

// KeyPair holds every value produced by key generation.
// It is never mutated after creation; new keys replace it wholesale.
type KeyPair struct {
	P   int64 `json:"p"`
	Q   int64 `json:"q"`
	N   int64 `json:"n"`
	Phi int64 `json:"phi"`
	E   int64 `json:"e"`
	D   int64 `json:"d"`
}

// Public returns the public key (e, n).
func (kp KeyPair) Public() PublicKey {
	return PublicKey{E: kp.E, N: kp.N}
}

// Private returns the private key (d, n).
func (kp KeyPair) Private() PrivateKey {
	return PrivateKey{D: kp.D, N: kp.N}
}

// =============================================================================
// Ciphertext
// =============================================================================

// Ciphertext is the ordered sequence of encrypted symbol codes, each in [0, n-1].
type Ciphertext []int64

// String renders the ciphertext as whitespace-separated integers.
func (c Ciphertext) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// Frequency Types
// =============================================================================

// FrequencyVector is a 27-bin letter profile ordered A..Z, space.
type FrequencyVector []float64

// Histogram is chart-ready data: one count per label, in display order.
type Histogram struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
}

// =============================================================================
// Cryptanalysis Types
// =============================================================================

// Strategy names a cryptanalysis search strategy.
type Strategy string

const (
	// StrategyExhaustive tries every private exponent up to a cap.
	StrategyExhaustive Strategy = "exhaustive"
	// StrategyPhiRestricted derives candidate exponents from totient guesses.
	StrategyPhiRestricted Strategy = "phi-restricted"
)

// StopReason records why a search ended.
type StopReason string

const (
	// StopExhausted means the whole search space (or the attempt cap) was used.
	StopExhausted StopReason = "exhausted"
	// StopThreshold means a candidate scored below the early-exit threshold.
	StopThreshold StopReason = "threshold"
	// StopCanceled means the context was canceled before the search finished.
	StopCanceled StopReason = "canceled"
)

// CryptanalysisResult is the outcome of one analysis call.
type CryptanalysisResult struct {
	Strategy      Strategy   `json:"strategy"`
	Plaintext     string     `json:"plaintext"`
	Found         bool       `json:"found"`
	GuessedD      int64      `json:"guessed_d,omitempty"`
	GuessedPhi    int64      `json:"guessed_phi,omitempty"`
	MSE           float64    `json:"mse"`
	Attempts      int        `json:"attempts"`
	Rejected      int        `json:"rejected"`       // candidates decoding outside [0, 26]
	NonInvertible int        `json:"non_invertible"` // totient guesses sharing a factor with e
	Stop          StopReason `json:"stop"`
}

// NoCandidate returns the result reported when nothing valid was found.
func NoCandidate(strategy Strategy) CryptanalysisResult {
	return CryptanalysisResult{
		Strategy: strategy,
		MSE:      math.Inf(1),
		Stop:     StopExhausted,
	}
}
