// Package core provides parameter sets and validation for toyrsa.
package core

import (
	"runtime"

	"github.com/pkg/errors"

	toyrsa "github.com/BackendStack21/toyrsa-go"
	"github.com/BackendStack21/toyrsa-go/utils"
)

// ParamSet bundles the prime range used for key generation with the
// tuning knobs of both cryptanalysis strategies.
type ParamSet struct {
	Name         string  `json:"name"`
	MinPrime     int64   `json:"min_prime"`
	MaxPrime     int64   `json:"max_prime"`
	SearchCap    int64   `json:"search_cap"`    // exhaustive search: highest d tried is min(cap, n) - 1
	AttemptCap   int     `json:"attempt_cap"`   // phi-restricted search: totient guesses tried
	MSEThreshold float64 `json:"mse_threshold"` // phi-restricted search: early exit below this score
	Workers      int     `json:"workers"`       // 0 means runtime.NumCPU()
}

// Classroom uses two-digit primes, small enough to brute force in a lecture.
var Classroom = ParamSet{
	Name:         "classroom",
	MinPrime:     7,
	MaxPrime:     97,
	SearchCap:    10000,
	AttemptCap:   5000,
	MSEThreshold: 1e-4,
	Workers:      1,
}

// Tiny keeps moduli just above the alphabet size.
var Tiny = ParamSet{
	Name:         "tiny",
	MinPrime:     5,
	MaxPrime:     31,
	SearchCap:    1000,
	AttemptCap:   1000,
	MSEThreshold: 1e-4,
	Workers:      1,
}

// Wide uses three-digit primes; the attack needs much larger caps here.
var Wide = ParamSet{
	Name:         "wide",
	MinPrime:     101,
	MaxPrime:     997,
	SearchCap:    1000000,
	AttemptCap:   500000,
	MSEThreshold: 1e-4,
	Workers:      0,
}

// DefaultParams returns the classroom parameter set.
func DefaultParams() ParamSet {
	return Classroom
}

// GetParams returns the parameter set with the given name.
func GetParams(name string) (ParamSet, error) {
	switch name {
	case Classroom.Name, "":
		return Classroom, nil
	case Tiny.Name:
		return Tiny, nil
	case Wide.Name:
		return Wide, nil
	default:
		return ParamSet{}, errors.Errorf("unknown parameter set: %s", name)
	}
}

// Names lists the built-in parameter sets.
func Names() []string {
	return []string{Classroom.Name, Tiny.Name, Wide.Name}
}

// ValidateParams validates the parameter set for consistency.
func ValidateParams(p ParamSet) error {
	if p.MinPrime < 2 {
		return errors.New("min prime must be at least 2")
	}
	if p.MaxPrime < p.MinPrime {
		return errors.New("max prime cannot be below min prime")
	}
	if p.MaxPrime > utils.MaxPrimeBound {
		return errors.Errorf("max prime cannot exceed %d", int64(utils.MaxPrimeBound))
	}
	if p.MaxPrime*p.MaxPrime < toyrsa.MinModulus {
		return errors.Wrapf(toyrsa.ErrModulusTooSmall, "max prime %d", p.MaxPrime)
	}
	if p.SearchCap < 1 {
		return errors.New("search cap must be positive")
	}
	if p.AttemptCap < 1 {
		return errors.New("attempt cap must be positive")
	}
	if p.MSEThreshold < 0 {
		return errors.New("mse threshold cannot be negative")
	}
	if p.Workers < 0 {
		return errors.New("workers cannot be negative")
	}
	return nil
}

// EffectiveWorkers resolves Workers == 0 to the number of CPUs.
func (p ParamSet) EffectiveWorkers() int {
	if p.Workers == 0 {
		return runtime.NumCPU()
	}
	return p.Workers
}
