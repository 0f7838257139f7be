package bandplan

import (
	"io"
	"log/slog"
	"math/rand"
	"time"
)

// WithLogger sets the logger used for placement diagnostics.
func WithLogger(logger *slog.Logger) func(*Generator) {
	return func(g *Generator) {
		g.logger = logger
	}
}

// Generator places non-overlapping signals of random width, centre frequency
// and modulation on a discretized frequency channel using bounded rejection
// sampling. A Generator owns its RNG instance; two generators created with
// the same seeded parameters produce identical plans.
//
// A Generator is not safe for concurrent use; create one per goroutine.
type Generator struct {
	params Params
	grid   Grid
	rng    *rand.Rand
	logger *slog.Logger
}

// New validates params and creates a Generator. When params.Seed is nil the
// RNG is seeded from the wall clock and runs are not reproducible.
func New(params Params, options ...func(*Generator)) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if params.Seed != nil {
		seed = *params.Seed
	}

	g := Generator{
		params: params,
		grid:   NewGrid(params.ChannelBandwidth, params.NBins),
		rng:    rand.New(rand.NewSource(seed)),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // nil logger
	}

	for _, option := range options {
		option(&g)
	}

	return &g, nil
}

// Grid returns the derived channel grid.
func (g *Generator) Grid() Grid {
	return g.grid
}

// candidate is a signal draw before the collision check. occupied and guard
// stay as sets until the candidate is accepted.
type candidate struct {
	widthBins  int
	snr        float64
	centerFreq float64
	occupied   binSet
	guard      binSet
	modulation string
}

// Generate runs the placement loop and assembles the resulting plan.
// The loop stops when either params.NSignals signals have been accepted or
// params.MaxTries placement attempts have been spent; running out of tries
// is a normal outcome and yields a plan with fewer signals than requested.
func (g *Generator) Generate() (*Plan, error) {
	validBins := binRun(0, g.params.NBins)

	signals := make([]Signal, 0, g.params.NSignals) // non-nil so an empty plan serializes as []
	var blocked []binSet                            // occupied-or-guard set per accepted signal
	tries := 0

	for len(signals) < g.params.NSignals && tries < g.params.MaxTries {
		tries++

		cand, err := g.draw(validBins)
		if err != nil {
			return nil, err
		}

		if overlapping(cand.occupied, blocked) {
			g.logger.Debug("candidate overlaps an existing signal, retrying",
				slog.Int("try", tries),
				slog.Int("placed", len(signals)))
			continue
		}

		signals = append(signals, Signal{
			WidthBins:      cand.widthBins,
			SNR:            cand.snr,
			CenterFreq:     cand.centerFreq,
			OccupiedBins:   cand.occupied.sorted(),
			GuardBins:      cand.guard.sorted(),
			ModulationType: cand.modulation,
		})
		blocked = append(blocked, cand.occupied.union(cand.guard))
	}

	if len(signals) < g.params.NSignals {
		g.logger.Warn("try budget exhausted before reaching target signal count",
			slog.Int("placed", len(signals)),
			slog.Int("requested", g.params.NSignals),
			slog.Int("tries", tries))
	}

	return &Plan{
		FreqSpan: g.params.ChannelBandwidth,
		NBins:    g.params.NBins,
		NSignals: len(signals),
		Signals:  signals,
	}, nil
}

// draw produces one candidate signal. The centre placement policy depends on
// the parity of the width: even widths sit on a bin edge, odd widths on a bin
// centre, and in both cases the first and last `half` candidate positions are
// trimmed so the occupied span can never run off the grid.
func (g *Generator) draw(validBins binSet) (candidate, error) {
	var cand candidate

	cand.widthBins = 1 + g.rng.Intn(g.params.MaxSignalBins)
	cand.snr = g.params.MinSNR + g.rng.Float64()*(g.params.MaxSNR-g.params.MinSNR)

	half := cand.widthBins / 2
	var start int // lowest occupied bin index

	if cand.widthBins%2 == 0 {
		validEdges := g.grid.Edges[half : g.params.NBins+1-half]
		if len(validEdges) == 0 {
			return candidate{}, &ParamError{"maxSignalBins", "no valid placement position on the grid"}
		}

		i := g.rng.Intn(len(validEdges))
		cand.centerFreq = validEdges[i]

		edgeIdx := half + i // index of the chosen edge on the full grid
		start = edgeIdx - half
	} else {
		validCenters := g.grid.Centers[half : g.params.NBins-half]
		if len(validCenters) == 0 {
			return candidate{}, &ParamError{"maxSignalBins", "no valid placement position on the grid"}
		}

		i := g.rng.Intn(len(validCenters))
		cand.centerFreq = validCenters[i]

		binIdx := half + i // index of the chosen centre bin on the full grid
		start = binIdx - half
	}

	cand.occupied = binRun(start, cand.widthBins)
	cand.guard = guardBins(cand.occupied, g.params.NBins)
	cand.guard.intersect(validBins)

	cand.modulation = g.params.SignalTypes[g.rng.Intn(len(g.params.SignalTypes))]

	return cand, nil
}

// guardBins returns the bins immediately below and above the occupied span,
// wrapped modulo nBins. The grid is not physically cyclic; the wraparound is
// a deliberate modelling of spectral adjacency that downstream consumers
// depend on.
func guardBins(occupied binSet, nBins int) binSet {
	sorted := occupied.sorted()
	lo, hi := sorted[0], sorted[len(sorted)-1]

	guard := newBinSet()
	guard.add(mod(lo-1, nBins))
	guard.add(mod(hi+1, nBins))
	return guard
}

// overlapping reports whether occupied intersects any of the blocked sets.
func overlapping(occupied binSet, blocked []binSet) bool {
	for _, b := range blocked {
		if occupied.intersects(b) {
			return true
		}
	}
	return false
}

// mod is the euclidean remainder, always in [0, n).
func mod(i, n int) int {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}
