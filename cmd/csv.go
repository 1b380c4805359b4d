package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	sim "github.com/mat-adamec/100-prisoner-problem/sim"
)

// resultCSVHeader lists the columns of the flat result record, one row per
// experiment. Written only when the file is created.
var resultCSVHeader = []string{
	"strategy", "prisoners", "envelopes", "budget", "rounding", "seed",
	"trials", "successes", "probability", "wilson_low", "wilson_high",
	"prisoner_rate_mean", "cycle_length_mean", "elapsed_seconds",
}

// appendResultCSV appends one experiment record to path, creating the file
// with a header row if it does not exist yet.
func appendResultCSV(path string, r sim.ExperimentResult) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(resultCSVHeader); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
	}

	cycleMean := ""
	if r.CycleLengths != nil {
		cycleMean = strconv.FormatFloat(r.CycleLengths.Mean, 'f', -1, 64)
	}
	record := []string{
		r.Strategy,
		strconv.Itoa(r.Prisoners),
		strconv.Itoa(r.Envelopes),
		strconv.Itoa(r.Budget),
		r.Rounding,
		strconv.FormatInt(r.Seed, 10),
		strconv.FormatInt(r.Trials, 10),
		strconv.FormatInt(r.CohortSuccesses, 10),
		strconv.FormatFloat(r.Probability, 'f', -1, 64),
		strconv.FormatFloat(r.WilsonLow, 'f', -1, 64),
		strconv.FormatFloat(r.WilsonHigh, 'f', -1, 64),
		strconv.FormatFloat(r.PrisonerRateMean, 'f', -1, 64),
		cycleMean,
		strconv.FormatFloat(r.Elapsed.Seconds(), 'f', -1, 64),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write CSV record: %w", err)
	}
	w.Flush()
	return w.Error()
}
