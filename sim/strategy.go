package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// Outcome is one prisoner's result within a trial.
type Outcome struct {
	Found  bool // prisoner saw their own number within the budget
	Opened int  // envelopes actually opened

	// CycleLength is the length of the permutation cycle containing the
	// prisoner's slot. Reported by cycle-following strategies, 0 when the
	// strategy has no notion of cycles (e.g. random selection).
	CycleLength int
}

// Strategy decides which envelopes one prisoner opens. Implementations are
// pure functions of (prisoner, permutation, budget) plus the supplied random
// stream; they must not mutate the permutation and must not retain state
// across trials.
type Strategy interface {
	Name() string
	Attempt(prisoner int, perm Permutation, budget int, rng *rand.Rand) (Outcome, error)
}

// checkAttemptContract validates the caller contract shared by all
// strategies: the prisoner index must address an envelope slot and the
// budget must fit in [1, len(perm)].
func checkAttemptContract(prisoner int, perm Permutation, budget int) error {
	if prisoner < 0 || prisoner >= perm.Len() {
		return fmt.Errorf("%w: prisoner index %d outside [0, %d)", ErrContract, prisoner, perm.Len())
	}
	if budget < 1 || budget > perm.Len() {
		return fmt.Errorf("%w: attempt budget %d outside [1, %d]", ErrContract, budget, perm.Len())
	}
	return nil
}

// === Registry ===

// StrategyFactory constructs a fresh Strategy instance.
type StrategyFactory func() Strategy

var strategyRegistry = map[string]StrategyFactory{}

// RegisterStrategy makes a strategy selectable by name from configuration.
// Registering a duplicate name panics: two strategies answering to the same
// name would make experiment records ambiguous.
func RegisterStrategy(name string, factory StrategyFactory) {
	if _, ok := strategyRegistry[name]; ok {
		panic(fmt.Sprintf("RegisterStrategy: duplicate strategy name %q", name))
	}
	strategyRegistry[name] = factory
}

// NewStrategy returns a fresh instance of the named strategy.
func NewStrategy(name string) (Strategy, error) {
	factory, ok := strategyRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown strategy %q (registered: %v)", ErrConfig, name, StrategyNames())
	}
	return factory(), nil
}

// StrategyNames returns the registered strategy names, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(strategyRegistry))
	for name := range strategyRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterStrategy("random", func() Strategy { return &RandomStrategy{} })
	RegisterStrategy("loop", func() Strategy { return &LoopStrategy{} })
}
