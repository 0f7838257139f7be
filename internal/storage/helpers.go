package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spectrumlab/bandplan/internal/bandplan"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && !errors.Is(cErr, sql.ErrTxDone) && *err == nil {
		*err = cErr
	}
}

// encodeBins serializes a bin index list as a JSON array for TEXT storage.
func encodeBins(bins []int) (string, error) {
	p, err := json.Marshal(bins)
	if err != nil {
		return "", fmt.Errorf("marshaling bins: %w", err)
	}
	return string(p), nil
}

func decodeBins(data string) ([]int, error) {
	var bins []int
	if err := json.Unmarshal([]byte(data), &bins); err != nil {
		return nil, fmt.Errorf("unmarshaling bins: %w", err)
	}
	return bins, nil
}

func toRun(data *runData) *Run {
	run := Run{
		ID:        data.ID,
		CreatedAt: data.CreatedAt,
		FreqSpan:  data.FreqSpan,
		NBins:     int(data.NBins),
		NSignals:  int(data.NSignals),
	}
	if data.Seed.Valid {
		run.Seed = &data.Seed.Int64
	}
	if data.Params.Valid {
		run.Params = &data.Params.String
	}
	return &run
}

func toSignal(data *signalData) (*bandplan.Signal, error) {
	occupied, err := decodeBins(data.OccupiedBins)
	if err != nil {
		return nil, fmt.Errorf("decoding occupied bins: %w", err)
	}
	guard, err := decodeBins(data.GuardBins)
	if err != nil {
		return nil, fmt.Errorf("decoding guard bins: %w", err)
	}

	return &bandplan.Signal{
		WidthBins:      int(data.WidthBins),
		SNR:            data.SNR,
		CenterFreq:     data.CenterFreq,
		OccupiedBins:   occupied,
		GuardBins:      guard,
		ModulationType: data.ModulationType,
	}, nil
}

func toNullParams(params any) (sql.NullString, error) {
	var data sql.NullString
	if params == nil {
		return data, nil
	}

	switch v := params.(type) {
	case string:
		data.Valid = true
		data.String = v

	case []byte:
		data.Valid = true
		data.String = string(v)

	default:
		p, err := json.Marshal(params)
		if err != nil {
			return data, fmt.Errorf("marshaling params: %w", err)
		}

		data.Valid = true
		data.String = string(p)
	}

	return data, nil
}

func toNullSeed(seed *int64) sql.NullInt64 {
	var data sql.NullInt64
	if seed != nil {
		data.Int64 = *seed
		data.Valid = true
	}
	return data
}
