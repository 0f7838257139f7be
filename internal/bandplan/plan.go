package bandplan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Signal is one placed signal in a band plan. Bin index slices are always
// ascending. The JSON field names match the band plan file format consumed
// by the transmit flowgraph and must not change.
type Signal struct {
	WidthBins      int     `json:"n_bins"`          // Signal width in bins
	SNR            float64 `json:"snr"`             // Assigned SNR label in dB
	CenterFreq     float64 `json:"center_freq"`     // Centre frequency in Hz, relative to channel centre
	OccupiedBins   []int   `json:"occupied_bins"`   // Contiguous bin indices the signal occupies
	GuardBins      []int   `json:"guard_bins"`      // Bin indices reserved around the occupied span
	ModulationType string  `json:"modulation_type"` // One of the configured signal types
}

// Plan is a complete generated band plan. NSignals is the count actually
// achieved, which may be lower than requested when the try budget runs out.
type Plan struct {
	FreqSpan float64  `json:"freq_span"`
	NBins    int      `json:"n_bins"`
	NSignals int      `json:"n_signals"`
	Signals  []Signal `json:"signals"`
}

// WritePlan encodes a plan as JSON to w.
func WritePlan(w io.Writer, p *Plan) error {
	if err := json.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("encoding band plan: %w", err)
	}
	return nil
}

// ReadPlan decodes a JSON-encoded plan from r.
func ReadPlan(r io.Reader) (*Plan, error) {
	var p Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding band plan: %w", err)
	}
	return &p, nil
}

// SavePlan writes a plan to the named file, creating or truncating it.
func SavePlan(path string, p *Plan) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating band plan file: %w", err)
	}
	defer closeWithError(f, &err)

	return WritePlan(f, p)
}

// LoadPlan reads a plan from the named file.
func LoadPlan(path string) (plan *Plan, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening band plan file: %w", err)
	}
	defer closeWithError(f, &err)

	return ReadPlan(f)
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
