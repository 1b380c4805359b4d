package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// checkCancelEvery bounds how many trials run between context checks, so a
// cancelled long experiment stops promptly without a per-trial branch cost.
const checkCancelEvery = 4096

// ExperimentConfig is the full configuration surface of one experiment.
// Zero values default sensibly via Validate: envelopes default to the
// prisoner count, a nil schema means "half the envelopes", workers <= 1
// means sequential execution.
type ExperimentConfig struct {
	Prisoners int        // number of prisoners P, required, >= 1
	Envelopes int        // number of envelopes E, 0 = Prisoners, must be >= Prisoners
	Trials    int64      // number of independent trials, required, >= 1
	Strategy  string     // registered strategy name, "" = "loop"
	Schema    SchemaFunc // attempt schema, nil = HalfSchema
	Rounding  RoundingPolicy
	Seed      int64 // master seed for the partitioned RNG
	Workers   int   // parallel trial workers, <= 1 = sequential

	// ProgressEvery logs an Info progress line every N trials (per worker).
	// 0 disables progress reporting.
	ProgressEvery int64
}

// Validate normalizes defaults in place and rejects configurations under
// which the experiment is meaningless. Called by NewExperimentRunner; safe
// to call directly.
func (c *ExperimentConfig) Validate() error {
	if c.Prisoners < 1 {
		return fmt.Errorf("%w: prisoners must be >= 1, got %d", ErrConfig, c.Prisoners)
	}
	if c.Envelopes == 0 {
		c.Envelopes = c.Prisoners
	}
	if c.Envelopes < c.Prisoners {
		return fmt.Errorf("%w: envelopes (%d) must be >= prisoners (%d)", ErrConfig, c.Envelopes, c.Prisoners)
	}
	if c.Trials < 1 {
		return fmt.Errorf("%w: trials must be >= 1, got %d", ErrConfig, c.Trials)
	}
	if c.Strategy == "" {
		c.Strategy = "loop"
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrConfig, c.Workers)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("%w: progress interval must be >= 0, got %d", ErrConfig, c.ProgressEvery)
	}
	return nil
}

// ExperimentRunner executes one experiment: a configured number of
// independent trials streamed into running counters. The accumulators are
// local to one Run invocation, so concurrent experiments never interfere.
type ExperimentRunner struct {
	cfg    ExperimentConfig
	strat  Strategy
	budget int
}

// NewExperimentRunner validates the configuration, resolves the strategy by
// name, and computes the attempt budget once for the whole experiment. The
// budget is fixed: a schema must be a deterministic function of the envelope
// count, so recomputing it per trial would only mask configuration bugs.
func NewExperimentRunner(cfg ExperimentConfig) (*ExperimentRunner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strat, err := NewStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	budget, err := ComputeBudget(cfg.Envelopes, cfg.Schema, cfg.Rounding)
	if err != nil {
		return nil, err
	}
	return &ExperimentRunner{cfg: cfg, strat: strat, budget: budget}, nil
}

// Budget returns the attempt budget computed for this experiment.
func (r *ExperimentRunner) Budget() int {
	return r.budget
}

// Run executes all trials and returns the finalized result. Sequential when
// cfg.Workers <= 1; otherwise trials are split across an errgroup worker
// pool where each worker owns an independent derived RNG stream and a
// private accumulator, merged after the pool drains. Cancellation via ctx is
// cooperative and checked between trial batches.
func (r *ExperimentRunner) Run(ctx context.Context) (ExperimentResult, error) {
	start := time.Now()
	logrus.Infof("starting experiment: strategy=%s prisoners=%d envelopes=%d budget=%d trials=%d workers=%d seed=%d",
		r.cfg.Strategy, r.cfg.Prisoners, r.cfg.Envelopes, r.budget, r.cfg.Trials, r.cfg.Workers, r.cfg.Seed)

	key := NewExperimentKey(r.cfg.Seed)

	var acc *accumulator
	var err error
	if r.cfg.Workers <= 1 {
		acc, err = r.runStream(ctx, key, StreamTrials, r.cfg.Trials)
	} else {
		acc, err = r.runParallel(ctx, key)
	}
	if err != nil {
		return ExperimentResult{}, err
	}

	result := acc.finalize(r.strat.Name(), r.cfg.Prisoners, r.cfg.Envelopes, r.budget, r.cfg.Rounding, r.cfg.Seed, time.Since(start))
	logrus.Infof("experiment complete: %d/%d cohort successes (p=%.6f) in %s",
		result.CohortSuccesses, result.Trials, result.Probability, result.Elapsed)
	return result, nil
}

// runStream executes `trials` trials on a single named RNG stream,
// returning the stream's private accumulator.
func (r *ExperimentRunner) runStream(ctx context.Context, key ExperimentKey, stream string, trials int64) (*accumulator, error) {
	rng := NewPartitionedRNG(key).ForStream(stream)
	source := NewShuffleSource(rng)
	acc := newAccumulator(r.cfg.Prisoners, r.cfg.Envelopes)

	// The loop strategy admits a batched fast path: cycle lengths are
	// computed once per permutation by cycle decomposition instead of one
	// slot-open at a time per prisoner. Results are identical trial for
	// trial because the walk is fully determined by the permutation.
	_, batched := r.strat.(*LoopStrategy)
	scratch := make([]bool, r.cfg.Envelopes)

	for i := int64(0); i < trials; i++ {
		if i%checkCancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if r.cfg.ProgressEvery > 0 && i > 0 && i%r.cfg.ProgressEvery == 0 {
			logrus.Infof("%s: %d/%d trials", stream, i, trials)
		}

		if batched {
			perm, err := source.Generate(r.cfg.Envelopes)
			if err != nil {
				return nil, err
			}
			observeLoopTrial(perm, r.cfg.Prisoners, r.budget, acc, scratch)
			continue
		}

		tr, err := RunTrial(r.cfg.Prisoners, r.cfg.Envelopes, r.budget, r.strat, source, rng)
		if err != nil {
			return nil, err
		}
		acc.observe(tr)
	}
	return acc, nil
}

// runParallel splits the trial count across cfg.Workers goroutines. Each
// worker draws from its own derived stream and fills a private accumulator;
// the accumulators are merged once the group drains, so no lock or atomic
// sits on the hot path.
func (r *ExperimentRunner) runParallel(ctx context.Context, key ExperimentKey) (*accumulator, error) {
	workers := r.cfg.Workers
	per := r.cfg.Trials / int64(workers)
	remainder := r.cfg.Trials % int64(workers)

	accs := make([]*accumulator, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		trials := per
		if int64(w) < remainder {
			trials++
		}
		if trials == 0 {
			continue
		}
		stream := StreamWorker(w)
		slot := w
		g.Go(func() error {
			acc, err := r.runStream(ctx, key, stream, trials)
			if err != nil {
				return err
			}
			accs[slot] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := newAccumulator(r.cfg.Prisoners, r.cfg.Envelopes)
	for _, acc := range accs {
		if acc != nil {
			merged.merge(acc)
		}
	}
	return merged, nil
}

// RunExperiment is the convenience entry point: validate, build, run.
func RunExperiment(ctx context.Context, cfg ExperimentConfig) (ExperimentResult, error) {
	runner, err := NewExperimentRunner(cfg)
	if err != nil {
		return ExperimentResult{}, err
	}
	return runner.Run(ctx)
}

// observeLoopTrial folds one permutation's loop-strategy outcome directly
// into the accumulator. Decomposes the permutation into cycles, visiting
// each slot at most once; every prisoner on a cycle of length L succeeds iff
// L <= budget. Slots >= prisoners carry unclaimed numbers and contribute no
// prisoner outcome, matching the walking path.
func observeLoopTrial(perm Permutation, prisoners, budget int, acc *accumulator, visited []bool) {
	for i := range visited {
		visited[i] = false
	}

	acc.trials++
	allFound := true
	for start := 0; start < prisoners; start++ {
		if visited[start] {
			continue
		}

		// Walk the whole cycle once to learn its length.
		length := 0
		for slot := start; !visited[slot]; slot = perm[slot] {
			visited[slot] = true
			length++
		}
		found := length <= budget

		// Second pass over the same cycle: credit every prisoner on it.
		slot := start
		for i := 0; i < length; i++ {
			if slot < prisoners {
				if found {
					acc.prisonerFound[slot]++
				} else {
					allFound = false
				}
				acc.cycleHist[length]++
			}
			slot = perm[slot]
		}
	}
	if allFound {
		acc.cohortSuccesses++
	}
}
