package storage

import (
	"context"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spectrumlab/bandplan/internal/bandplan"
)

// Store provides an interface for the band plan catalog. It records
// generation runs and their placed signals so generated ground truth can be
// browsed and re-rendered later. All write operations are atomic: a plan is
// stored with all of its signals in one transaction or not at all.
type Store interface {
	// StorePlan saves a generated plan together with its provenance and
	// returns the unique identifier of the created run.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - plan: The generated band plan to store
	//   - meta: Optional seed and parameters that produced the plan
	//
	// Returns:
	//   - runID: Unique identifier for the created run
	//   - error: If storage fails or context is cancelled
	StorePlan(ctx context.Context, plan *bandplan.Plan, meta RunMeta) (runID int64, err error)

	// Run retrieves a specific generation run by its ID.
	//
	// Returns:
	//   - run: Pointer to run data, nil if not found
	//   - error: If retrieval fails or context is cancelled
	Run(ctx context.Context, id int64) (run *Run, err error)

	// Runs returns all generation runs stored in the catalog,
	// ordered by creation time in ascending order.
	Runs(ctx context.Context) (runs []*Run, err error)

	// LoadPlan reassembles the complete band plan of a run, with signals
	// in their original acceptance order.
	LoadPlan(ctx context.Context, runID int64) (plan *bandplan.Plan, err error)

	// Close releases all database connections and resources.
	// After Close is called, the store instance cannot be reused.
	// It is safe to call Close multiple times.
	Close() error
}
