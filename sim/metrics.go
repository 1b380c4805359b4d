// Streaming accumulation and final reporting for experiment runs.

package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// accumulator holds the running counters for one stream of trials. Memory is
// O(prisoners) + O(envelopes) regardless of the trial count: trials are
// folded in one at a time and never materialized as a collection. Each
// worker owns a private accumulator; the runner merges them at the end, so
// the hot path needs no locks or atomics.
type accumulator struct {
	trials          int64
	cohortSuccesses int64
	prisonerFound   []int64 // per-prisoner success counts
	cycleHist       []int64 // index = cycle length, 1..envelopes; nil-ish (all zero) for non-cycle strategies
}

func newAccumulator(prisoners, envelopes int) *accumulator {
	return &accumulator{
		prisonerFound: make([]int64, prisoners),
		cycleHist:     make([]int64, envelopes+1),
	}
}

// observe folds one TrialResult into the counters.
func (a *accumulator) observe(tr TrialResult) {
	a.trials++
	if tr.AllFound {
		a.cohortSuccesses++
	}
	for i, found := range tr.Found {
		if found {
			a.prisonerFound[i]++
		}
	}
	for _, length := range tr.CycleLengths {
		a.cycleHist[length]++
	}
}

// merge folds another accumulator into a. The other accumulator must have
// been created with the same prisoner and envelope counts.
func (a *accumulator) merge(b *accumulator) {
	a.trials += b.trials
	a.cohortSuccesses += b.cohortSuccesses
	for i, n := range b.prisonerFound {
		a.prisonerFound[i] += n
	}
	for i, n := range b.cycleHist {
		a.cycleHist[i] += n
	}
}

// === ExperimentResult ===

// CycleLengthSummary summarizes the observed distribution of permutation
// cycle lengths across all prisoners and trials. Only populated by
// cycle-following strategies.
type CycleLengthSummary struct {
	Observations int64
	Mean         float64
	Median       float64
	P90          float64
}

// ExperimentResult is the aggregate outcome of one experiment: the record
// handed to the reporting collaborator. Finalized (read-only) once the run
// completes.
type ExperimentResult struct {
	Strategy  string
	Prisoners int
	Envelopes int
	Budget    int
	Rounding  string
	Seed      int64
	Trials    int64

	CohortSuccesses int64
	Probability     float64 // empirical cohort-success probability
	WilsonLow       float64 // 95% Wilson score interval on Probability
	WilsonHigh      float64

	PrisonerRates    []float64 // per-prisoner success rates, index = prisoner
	PrisonerRateMean float64
	PrisonerRateMin  float64
	PrisonerRateMax  float64

	CycleLengths *CycleLengthSummary // nil for non-cycle strategies

	Elapsed time.Duration
}

// finalize freezes the accumulated counters into an ExperimentResult.
func (a *accumulator) finalize(strategy string, prisoners, envelopes, budget int, rounding RoundingPolicy, seed int64, elapsed time.Duration) ExperimentResult {
	r := ExperimentResult{
		Strategy:        strategy,
		Prisoners:       prisoners,
		Envelopes:       envelopes,
		Budget:          budget,
		Rounding:        rounding.String(),
		Seed:            seed,
		Trials:          a.trials,
		CohortSuccesses: a.cohortSuccesses,
		Elapsed:         elapsed,
	}
	if a.trials == 0 {
		return r
	}

	r.Probability = float64(a.cohortSuccesses) / float64(a.trials)
	r.WilsonLow, r.WilsonHigh = wilsonInterval(a.cohortSuccesses, a.trials, 0.95)

	r.PrisonerRates = make([]float64, prisoners)
	for i, n := range a.prisonerFound {
		r.PrisonerRates[i] = float64(n) / float64(a.trials)
	}
	r.PrisonerRateMean = stat.Mean(r.PrisonerRates, nil)
	// Min/Max via montanaflynn; errors only occur on empty input, which
	// prisoners >= 1 rules out.
	if min, err := stats.Min(r.PrisonerRates); err == nil {
		r.PrisonerRateMin = min
	}
	if max, err := stats.Max(r.PrisonerRates); err == nil {
		r.PrisonerRateMax = max
	}

	r.CycleLengths = summarizeCycleHist(a.cycleHist)
	return r
}

// summarizeCycleHist reduces the cycle-length histogram to its summary.
// Returns nil when no cycle lengths were observed.
func summarizeCycleHist(hist []int64) *CycleLengthSummary {
	var total int64
	var weightedSum float64
	lengths := make([]float64, 0, len(hist))
	weights := make([]float64, 0, len(hist))
	for length, count := range hist {
		if count == 0 {
			continue
		}
		total += count
		weightedSum += float64(length) * float64(count)
		lengths = append(lengths, float64(length))
		weights = append(weights, float64(count))
	}
	if total == 0 {
		return nil
	}
	return &CycleLengthSummary{
		Observations: total,
		Mean:         weightedSum / float64(total),
		Median:       stat.Quantile(0.5, stat.Empirical, lengths, weights),
		P90:          stat.Quantile(0.9, stat.Empirical, lengths, weights),
	}
}

// wilsonInterval computes the Wilson score interval for successes/trials at
// the given confidence level. Preferred over the normal approximation
// because cohort probabilities sit near 0 for the random strategy.
func wilsonInterval(successes, trials int64, confidence float64) (low, high float64) {
	n := float64(trials)
	p := float64(successes) / n
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - (1-confidence)/2)
	z2 := z * z

	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	margin := z / denom * math.Sqrt(p*(1-p)/n+z2/(4*n*n))
	return center - margin, center + margin
}

// Print displays the aggregated result at the end of the experiment.
func (r *ExperimentResult) Print() {
	fmt.Println("=== Experiment Result ===")
	fmt.Printf("Strategy             : %s\n", r.Strategy)
	fmt.Printf("Prisoners / Envelopes: %d / %d\n", r.Prisoners, r.Envelopes)
	fmt.Printf("Attempt Budget       : %d (rounding=%s)\n", r.Budget, r.Rounding)
	fmt.Printf("Trials               : %d (seed=%d)\n", r.Trials, r.Seed)
	fmt.Printf("Cohort Successes     : %d\n", r.CohortSuccesses)
	fmt.Printf("Empirical Probability: %.6f (95%% CI %.6f..%.6f)\n", r.Probability, r.WilsonLow, r.WilsonHigh)
	fmt.Printf("Prisoner Success Rate: mean %.4f, min %.4f, max %.4f\n", r.PrisonerRateMean, r.PrisonerRateMin, r.PrisonerRateMax)
	if r.CycleLengths != nil {
		fmt.Printf("Cycle Lengths        : mean %.2f, median %.0f, p90 %.0f (%d observations)\n",
			r.CycleLengths.Mean, r.CycleLengths.Median, r.CycleLengths.P90, r.CycleLengths.Observations)
	}
	fmt.Printf("Elapsed              : %s\n", r.Elapsed)
}
