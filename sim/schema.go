package sim

import (
	"fmt"
	"math"
)

// SchemaFunc maps the envelope count to a (possibly non-integral) attempt
// count before rounding. The default is HalfSchema (E/2, the classic riddle).
type SchemaFunc func(envelopes int) float64

// HalfSchema gives each prisoner half the envelopes: the classic budget.
func HalfSchema(envelopes int) float64 {
	return float64(envelopes) / 2
}

// DivisorSchema gives each prisoner envelopes/divisor attempts.
// DivisorSchema(2) replicates HalfSchema.
func DivisorSchema(divisor float64) SchemaFunc {
	return func(envelopes int) float64 {
		return float64(envelopes) / divisor
	}
}

// FixedSchema gives each prisoner a constant number of attempts,
// independent of the envelope count.
func FixedSchema(attempts int) SchemaFunc {
	return func(int) float64 {
		return float64(attempts)
	}
}

// SchemaByName maps a configuration name to a SchemaFunc. "half" ignores
// param; "divisor" and "fixed" require a positive param.
func SchemaByName(name string, param float64) (SchemaFunc, error) {
	switch name {
	case "", "half":
		return HalfSchema, nil
	case "divisor":
		if param <= 0 {
			return nil, fmt.Errorf("%w: divisor schema requires a positive param, got %v", ErrConfig, param)
		}
		return DivisorSchema(param), nil
	case "fixed":
		if param < 1 || param != math.Trunc(param) {
			return nil, fmt.Errorf("%w: fixed schema requires a positive integer param, got %v", ErrConfig, param)
		}
		return FixedSchema(int(param)), nil
	default:
		return nil, fmt.Errorf("%w: unknown attempt schema %q (want \"half\", \"divisor\" or \"fixed\")", ErrConfig, name)
	}
}

// === RoundingPolicy ===

// RoundingPolicy resolves a non-integral schema output to an integer budget.
type RoundingPolicy int

const (
	// LowerToFloor rounds down. The default: the tighter constraint on the
	// experiment, so an ambiguous budget never flatters the success rate.
	LowerToFloor RoundingPolicy = iota

	// RaiseToCeiling rounds up.
	RaiseToCeiling
)

// String returns the configuration name of the policy.
func (r RoundingPolicy) String() string {
	switch r {
	case LowerToFloor:
		return "lower"
	case RaiseToCeiling:
		return "raise"
	default:
		return fmt.Sprintf("RoundingPolicy(%d)", int(r))
	}
}

// ParseRoundingPolicy maps a configuration name to a RoundingPolicy.
func ParseRoundingPolicy(name string) (RoundingPolicy, error) {
	switch name {
	case "lower":
		return LowerToFloor, nil
	case "raise":
		return RaiseToCeiling, nil
	default:
		return 0, fmt.Errorf("%w: unknown rounding policy %q (want \"lower\" or \"raise\")", ErrConfig, name)
	}
}

// ComputeBudget derives the attempt budget from the envelope count via the
// schema function, resolving non-integral outputs with the rounding policy.
// A nil schema defaults to HalfSchema. The result is validated, never
// clamped: a budget outside [1, envelopes] means the experiment either can
// never succeed or is trivially unconstrained, so it fails loudly.
func ComputeBudget(envelopes int, schema SchemaFunc, rounding RoundingPolicy) (int, error) {
	if envelopes < 1 {
		return 0, fmt.Errorf("%w: envelope count must be >= 1, got %d", ErrConfig, envelopes)
	}
	if schema == nil {
		schema = HalfSchema
	}

	raw := schema(envelopes)
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%w: attempt schema produced %v for %d envelopes", ErrConfig, raw, envelopes)
	}

	var budget int
	switch rounding {
	case LowerToFloor:
		budget = int(math.Floor(raw))
	case RaiseToCeiling:
		budget = int(math.Ceil(raw))
	default:
		return 0, fmt.Errorf("%w: unknown rounding policy %d", ErrConfig, int(rounding))
	}

	if budget < 1 || budget > envelopes {
		return 0, fmt.Errorf("%w: attempt budget %d outside [1, %d]", ErrConfig, budget, envelopes)
	}
	return budget, nil
}
