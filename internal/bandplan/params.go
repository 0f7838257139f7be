package bandplan

import "fmt"

// Params holds the immutable inputs of a single band plan generation run.
type Params struct {
	ChannelBandwidth float64  // Total channel bandwidth in Hz, > 0
	NBins            int      // Number of grid bins, >= 2
	NSignals         int      // Target signal count, >= 0; a ceiling, not a guarantee
	MinSNR           float64  // Minimum signal SNR label in dB
	MaxSNR           float64  // Maximum signal SNR label in dB, >= MinSNR
	SignalTypes      []string // Modulation labels to draw from, non-empty
	MaxSignalBins    int      // Maximum signal width in bins, in [1, NBins]
	MaxTries         int      // Total placement attempt budget, >= 0
	Seed             *int64   // Optional RNG seed; nil means a non-reproducible run
}

// ParamError reports a structural precondition violation in Params.
// Generation cannot proceed when one is returned.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// Validate checks the structural preconditions of the parameter set and
// returns a *ParamError describing the first violation found.
func (p Params) Validate() error {
	switch {
	case p.ChannelBandwidth <= 0:
		return &ParamError{"channelBandwidth", fmt.Sprintf("must be > 0, got %f", p.ChannelBandwidth)}

	case p.NBins < 2:
		return &ParamError{"nBins", fmt.Sprintf("must be >= 2, got %d", p.NBins)}

	case p.NSignals < 0:
		return &ParamError{"nSignals", fmt.Sprintf("must be >= 0, got %d", p.NSignals)}

	case p.MinSNR > p.MaxSNR:
		return &ParamError{"minSnrDb", fmt.Sprintf("must be <= maxSnrDb, got %f > %f", p.MinSNR, p.MaxSNR)}

	case len(p.SignalTypes) == 0:
		return &ParamError{"signalTypes", "must not be empty"}

	case p.MaxSignalBins < 1 || p.MaxSignalBins > p.NBins:
		return &ParamError{"maxSignalBins", fmt.Sprintf("must be in [1, %d], got %d", p.NBins, p.MaxSignalBins)}

	case p.MaxTries < 0:
		return &ParamError{"maxTries", fmt.Sprintf("must be >= 0, got %d", p.MaxTries)}
	}

	for i, st := range p.SignalTypes {
		if st == "" {
			return &ParamError{"signalTypes", fmt.Sprintf("entry %d is empty", i)}
		}
	}

	return nil
}
