package storage

import (
	"time"
)

// Run represents one stored band plan generation run: the channel shape,
// how many signals were actually placed, and the parameters that produced it.
type Run struct {
	ID        int64     // Unique identifier of the run
	CreatedAt time.Time // When the plan was generated
	FreqSpan  float64   // Total channel bandwidth in Hz
	NBins     int       // Number of grid bins
	NSignals  int       // Number of signals actually placed
	Seed      *int64    // RNG seed, nil when the run was not reproducible
	Params    *string   // Generation parameters in JSON format, if recorded
}

// RunMeta carries the optional provenance stored alongside a plan.
type RunMeta struct {
	Seed   *int64 // RNG seed used for the run, if any
	Params any    // Generation parameters; string, []byte or a JSON-serializable value
}
