package bandplan

import (
	"errors"
	"reflect"
	"slices"
	"testing"
)

func seedOf(v int64) *int64 {
	return &v
}

func testParams() Params {
	return Params{
		ChannelBandwidth: 3_000_000,
		NBins:            30,
		NSignals:         6,
		MinSNR:           15,
		MaxSNR:           20,
		SignalTypes:      []string{"FM", "QPSK", "GMSK"},
		MaxSignalBins:    4,
		MaxTries:         1000,
		Seed:             seedOf(42),
	}
}

func TestGenerate_FixedSNRScenario(t *testing.T) {
	params := testParams()
	params.MaxSNR = 15 // degenerate range forces exact SNR
	params.SignalTypes = []string{"FM"}

	g, err := New(params)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	plan, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if plan.NSignals != 6 {
		t.Fatalf("Expected 6 signals, got %d", plan.NSignals)
	}
	if plan.FreqSpan != 3_000_000 {
		t.Errorf("Expected freq span 3 MHz, got %f", plan.FreqSpan)
	}
	for i, sig := range plan.Signals {
		if sig.SNR != 15.0 {
			t.Errorf("Signal %d: expected SNR 15.0, got %f", i, sig.SNR)
		}
		if sig.ModulationType != "FM" {
			t.Errorf("Signal %d: expected modulation FM, got %s", i, sig.ModulationType)
		}
	}

	assertPlanInvariants(t, plan, params)
}

func TestGenerate_Deterministic(t *testing.T) {
	params := testParams()

	var plans []*Plan
	for i := 0; i < 2; i++ {
		g, err := New(params)
		if err != nil {
			t.Fatalf("Failed to create generator: %v", err)
		}
		plan, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		plans = append(plans, plan)
	}

	if !reflect.DeepEqual(plans[0], plans[1]) {
		t.Errorf("Two seeded runs diverged:\nfirst:  %+v\nsecond: %+v", plans[0], plans[1])
	}
}

func TestGenerate_SeedsDiffer(t *testing.T) {
	a := testParams()
	b := testParams()
	b.Seed = seedOf(43)

	ga, err := New(a)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	gb, err := New(b)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	planA, err := ga.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	planB, err := gb.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if reflect.DeepEqual(planA, planB) {
		t.Error("Expected different seeds to produce different plans")
	}
}

func TestGenerate_ZeroTries(t *testing.T) {
	params := testParams()
	params.MaxTries = 0

	g, err := New(params)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	plan, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if plan.NSignals != 0 {
		t.Errorf("Expected 0 signals with zero tries, got %d", plan.NSignals)
	}
	if len(plan.Signals) != 0 {
		t.Errorf("Expected empty signals list, got %d entries", len(plan.Signals))
	}
}

func TestGenerate_Oversubscribed(t *testing.T) {
	params := Params{
		ChannelBandwidth: 1_000_000,
		NBins:            8,
		NSignals:         50, // cannot possibly fit
		MinSNR:           10,
		MaxSNR:           20,
		SignalTypes:      []string{"FM"},
		MaxSignalBins:    8,
		MaxTries:         200,
		Seed:             seedOf(1),
	}

	g, err := New(params)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	plan, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if plan.NSignals >= params.NSignals {
		t.Errorf("Expected a partial result, got %d signals", plan.NSignals)
	}

	assertPlanInvariants(t, plan, params)
}

func TestGenerate_Invariants(t *testing.T) {
	cases := []struct {
		name   string
		params Params
	}{
		{
			name:   "three modulations",
			params: testParams(),
		},
		{
			name: "wide signals on a small grid",
			params: Params{
				ChannelBandwidth: 500_000,
				NBins:            5,
				NSignals:         3,
				MinSNR:           0,
				MaxSNR:           30,
				SignalTypes:      []string{"QPSK", "GMSK"},
				MaxSignalBins:    5,
				MaxTries:         500,
				Seed:             seedOf(7),
			},
		},
		{
			name: "single-bin signals",
			params: Params{
				ChannelBandwidth: 2_000_000,
				NBins:            20,
				NSignals:         8,
				MinSNR:           -5,
				MaxSNR:           5,
				SignalTypes:      []string{"FM"},
				MaxSignalBins:    1,
				MaxTries:         2000,
				Seed:             seedOf(99),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := New(tc.params)
			if err != nil {
				t.Fatalf("Failed to create generator: %v", err)
			}

			plan, err := g.Generate()
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			assertPlanInvariants(t, plan, tc.params)
		})
	}
}

// assertPlanInvariants checks the properties that must hold for every
// accepted plan: disjointness, containment, contiguity, range bounds and
// the requested-count ceiling.
func assertPlanInvariants(t *testing.T, plan *Plan, params Params) {
	t.Helper()

	if plan.NSignals != len(plan.Signals) {
		t.Errorf("NSignals %d does not match signals length %d", plan.NSignals, len(plan.Signals))
	}
	if plan.NSignals > params.NSignals {
		t.Errorf("Got %d signals, requested at most %d", plan.NSignals, params.NSignals)
	}

	for i, sig := range plan.Signals {
		if sig.WidthBins < 1 || sig.WidthBins > params.MaxSignalBins {
			t.Errorf("Signal %d: width %d outside [1, %d]", i, sig.WidthBins, params.MaxSignalBins)
		}
		if sig.SNR < params.MinSNR || sig.SNR > params.MaxSNR {
			t.Errorf("Signal %d: SNR %f outside [%f, %f]", i, sig.SNR, params.MinSNR, params.MaxSNR)
		}
		if !slices.Contains(params.SignalTypes, sig.ModulationType) {
			t.Errorf("Signal %d: unexpected modulation %q", i, sig.ModulationType)
		}

		// Contiguity: occupied bins form a consecutive ascending run
		if len(sig.OccupiedBins) != sig.WidthBins {
			t.Errorf("Signal %d: %d occupied bins for width %d", i, len(sig.OccupiedBins), sig.WidthBins)
		}
		for j := 1; j < len(sig.OccupiedBins); j++ {
			if sig.OccupiedBins[j] != sig.OccupiedBins[j-1]+1 {
				t.Errorf("Signal %d: occupied bins not contiguous: %v", i, sig.OccupiedBins)
				break
			}
		}

		// Containment
		for _, bin := range append(append([]int{}, sig.OccupiedBins...), sig.GuardBins...) {
			if bin < 0 || bin >= params.NBins {
				t.Errorf("Signal %d: bin index %d outside [0, %d)", i, bin, params.NBins)
			}
		}
	}

	// Pairwise disjointness, including guard bins of the other signal
	for i, a := range plan.Signals {
		for j, b := range plan.Signals {
			if i == j {
				continue
			}
			blocked := append(append([]int{}, b.OccupiedBins...), b.GuardBins...)
			for _, bin := range a.OccupiedBins {
				if slices.Contains(blocked, bin) {
					t.Errorf("Signal %d occupies bin %d inside signal %d's occupied-or-guard set", i, bin, j)
				}
			}
		}
	}
}

func TestParams_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
		param  string
	}{
		{"zero bandwidth", func(p *Params) { p.ChannelBandwidth = 0 }, "channelBandwidth"},
		{"negative bandwidth", func(p *Params) { p.ChannelBandwidth = -1 }, "channelBandwidth"},
		{"too few bins", func(p *Params) { p.NBins = 1 }, "nBins"},
		{"negative signal count", func(p *Params) { p.NSignals = -1 }, "nSignals"},
		{"inverted SNR range", func(p *Params) { p.MinSNR = 20; p.MaxSNR = 10 }, "minSnrDb"},
		{"no signal types", func(p *Params) { p.SignalTypes = nil }, "signalTypes"},
		{"empty signal type", func(p *Params) { p.SignalTypes = []string{"FM", ""} }, "signalTypes"},
		{"zero max signal bins", func(p *Params) { p.MaxSignalBins = 0 }, "maxSignalBins"},
		{"max signal bins beyond grid", func(p *Params) { p.MaxSignalBins = 31 }, "maxSignalBins"},
		{"negative tries", func(p *Params) { p.MaxTries = -1 }, "maxTries"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := testParams()
			tc.mutate(&params)

			err := params.Validate()
			if err == nil {
				t.Fatal("Expected a validation error")
			}

			var paramErr *ParamError
			if !errors.As(err, &paramErr) {
				t.Fatalf("Expected *ParamError, got %T", err)
			}
			if paramErr.Param != tc.param {
				t.Errorf("Expected parameter %q, got %q", tc.param, paramErr.Param)
			}

			if _, err := New(params); err == nil {
				t.Error("Expected New to reject invalid parameters")
			}
		})
	}

	if err := testParams().Validate(); err != nil {
		t.Errorf("Expected valid parameters to pass, got %v", err)
	}
}

func TestGuardBins_Wraparound(t *testing.T) {
	cases := []struct {
		name     string
		occupied []int
		nBins    int
		want     []int
	}{
		{"mid grid", []int{10, 11, 12}, 30, []int{9, 13}},
		{"flush low edge wraps", []int{0, 1}, 30, []int{2, 29}},
		{"flush high edge wraps", []int{28, 29}, 30, []int{0, 27}},
		{"full grid guards collapse onto occupied", []int{0, 1, 2, 3}, 4, []int{0, 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := guardBins(newBinSet(tc.occupied...), tc.nBins).sorted()
			if !slices.Equal(got, tc.want) {
				t.Errorf("Expected guard bins %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDraw_SpansStayOnGrid(t *testing.T) {
	// Maximum-width signals leave exactly one valid placement per parity;
	// the span must still be fully inside the grid.
	params := Params{
		ChannelBandwidth: 600_000,
		NBins:            6,
		NSignals:         1,
		MinSNR:           10,
		MaxSNR:           10,
		SignalTypes:      []string{"GMSK"},
		MaxSignalBins:    6,
		MaxTries:         100,
		Seed:             seedOf(3),
	}

	g, err := New(params)
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	validBins := binRun(0, params.NBins)
	for i := 0; i < 200; i++ {
		cand, err := g.draw(validBins)
		if err != nil {
			t.Fatalf("Draw %d failed: %v", i, err)
		}

		bins := cand.occupied.sorted()
		if bins[0] < 0 || bins[len(bins)-1] >= params.NBins {
			t.Fatalf("Draw %d: span %v runs off the grid", i, bins)
		}
		if len(bins) != cand.widthBins {
			t.Fatalf("Draw %d: expected %d occupied bins, got %d", i, cand.widthBins, len(bins))
		}
	}
}
