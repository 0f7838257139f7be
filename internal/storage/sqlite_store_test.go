package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spectrumlab/bandplan/internal/bandplan"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()

	store := NewSqliteStore(filepath.Join(t.TempDir(), "catalog.sqlite"))
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return store
}

func testStorePlan() *bandplan.Plan {
	return &bandplan.Plan{
		FreqSpan: 3_000_000,
		NBins:    30,
		NSignals: 3,
		Signals: []bandplan.Signal{
			{
				WidthBins:      3,
				SNR:            15.2,
				CenterFreq:     -1_050_000,
				OccupiedBins:   []int{3, 4, 5},
				GuardBins:      []int{2, 6},
				ModulationType: "FM",
			},
			{
				WidthBins:      2,
				SNR:            17.8,
				CenterFreq:     0,
				OccupiedBins:   []int{14, 15},
				GuardBins:      []int{13, 16},
				ModulationType: "QPSK",
			},
			{
				WidthBins:      1,
				SNR:            16.1,
				CenterFreq:     1_450_000,
				OccupiedBins:   []int{29},
				GuardBins:      []int{0, 28},
				ModulationType: "QPSK",
			},
		},
	}
}

func TestSqliteStore_PlanRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	plan := testStorePlan()
	seed := int64(42)

	runID, err := store.StorePlan(ctx, plan, RunMeta{Seed: &seed, Params: map[string]any{"nBins": 30}})
	if err != nil {
		t.Fatalf("StorePlan failed: %v", err)
	}
	if runID <= 0 {
		t.Fatalf("Expected a positive run ID, got %d", runID)
	}

	got, err := store.LoadPlan(ctx, runID)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if !reflect.DeepEqual(plan, got) {
		t.Errorf("Plan round trip mismatch:\nwant: %+v\ngot:  %+v", plan, got)
	}

	run, err := store.Run(ctx, runID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.NSignals != 3 || run.NBins != 30 || run.FreqSpan != 3_000_000 {
		t.Errorf("Unexpected run data: %+v", run)
	}
	if run.Seed == nil || *run.Seed != seed {
		t.Errorf("Expected seed %d, got %v", seed, run.Seed)
	}
	if run.Params == nil {
		t.Error("Expected params to be recorded")
	}
}

func TestSqliteStore_EmptyPlan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	plan := &bandplan.Plan{FreqSpan: 1_000_000, NBins: 10, NSignals: 0, Signals: []bandplan.Signal{}}

	runID, err := store.StorePlan(ctx, plan, RunMeta{})
	if err != nil {
		t.Fatalf("StorePlan failed: %v", err)
	}

	got, err := store.LoadPlan(ctx, runID)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if got.NSignals != 0 || len(got.Signals) != 0 {
		t.Errorf("Expected an empty plan, got %+v", got)
	}

	run, err := store.Run(ctx, runID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.Seed != nil || run.Params != nil {
		t.Errorf("Expected empty provenance, got %+v", run)
	}
}

func TestSqliteStore_Runs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.StorePlan(ctx, testStorePlan(), RunMeta{}); err != nil {
			t.Fatalf("StorePlan %d failed: %v", i, err)
		}
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].ID <= runs[i-1].ID {
			t.Errorf("Expected ascending run IDs, got %d after %d", runs[i].ID, runs[i-1].ID)
		}
	}
}

func TestSignalReader_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runID, err := store.StorePlan(ctx, testStorePlan(), RunMeta{})
	if err != nil {
		t.Fatalf("StorePlan failed: %v", err)
	}

	cases := []struct {
		name string
		opts []ReaderOption
		want int
	}{
		{"no filter", nil, 3},
		{"modulation", []ReaderOption{WithModulation("QPSK")}, 2},
		{"min width", []ReaderOption{WithMinWidth(2)}, 2},
		{"frequency range", []ReaderOption{WithFreqRange(-100_000, 2_000_000)}, 2},
		{"combined", []ReaderOption{WithModulation("QPSK"), WithMinWidth(2)}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reader, err := store.ReadSignals(ctx, runID, tc.opts...)
			if err != nil {
				t.Fatalf("ReadSignals failed: %v", err)
			}
			defer reader.Close()

			var count int
			for reader.Next(ctx) {
				count++
			}
			if err := reader.Error(); err != nil {
				t.Fatalf("Reader error: %v", err)
			}
			if count != tc.want {
				t.Errorf("Expected %d signals, got %d", tc.want, count)
			}
		})
	}
}

func TestSignalReader_InvalidFreqRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runID, err := store.StorePlan(ctx, testStorePlan(), RunMeta{})
	if err != nil {
		t.Fatalf("StorePlan failed: %v", err)
	}

	if _, err = store.ReadSignals(ctx, runID, WithFreqRange(1, -1)); err == nil {
		t.Error("Expected an error for an inverted frequency range")
	}
}
