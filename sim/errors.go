package sim

import "errors"

// ErrConfig marks configuration errors: parameter combinations under which
// the experiment is nonsensical or cannot possibly succeed. Always raised
// before any trial executes and never silently clamped.
var ErrConfig = errors.New("invalid configuration")

// ErrContract marks caller contract violations on the Strategy surface
// (out-of-range prisoner index, budget exceeding the envelope count).
// These are programming errors, not runtime random events.
var ErrContract = errors.New("contract violation")
