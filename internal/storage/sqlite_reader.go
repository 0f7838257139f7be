package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spectrumlab/bandplan/internal/bandplan"
)

// ReaderOption configures a SignalReader with specific filtering criteria.
type ReaderOption func(*SignalReader)

// WithModulation restricts the reader to signals of the given modulation type.
func WithModulation(modulation string) ReaderOption {
	return func(r *SignalReader) {
		r.modulation = &modulation
	}
}

// WithMinWidth restricts the reader to signals at least width bins wide.
func WithMinWidth(width int) ReaderOption {
	return func(r *SignalReader) {
		r.minWidth = &width
	}
}

// WithFreqRange restricts the reader to signals whose centre frequency lies
// in [minFreq, maxFreq].
func WithFreqRange(minFreq, maxFreq float64) ReaderOption {
	return func(r *SignalReader) {
		r.minFreq = &minFreq
		r.maxFreq = &maxFreq
	}
}

// SignalReader provides an iterator-based interface for reading the signals
// of a stored run in acceptance order.
type SignalReader struct {
	db    *sql.DB
	runID int64

	modulation *string  // Optional modulation type filter
	minWidth   *int     // Optional minimum width filter
	minFreq    *float64 // Optional minimum centre frequency filter
	maxFreq    *float64 // Optional maximum centre frequency filter

	current *bandplan.Signal
	rows    *sql.Rows
	err     error
}

func newSignalReader(ctx context.Context, db *sql.DB, runID int64, opts ...ReaderOption) (*SignalReader, error) {
	sr := &SignalReader{
		db:    db,
		runID: runID,
	}
	for _, opt := range opts {
		opt(sr)
	}
	if err := sr.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return sr, nil
}

func (sr *SignalReader) init(ctx context.Context) (err error) {
	if sr.db == nil {
		return errors.New("database connection required")
	}
	if sr.runID <= 0 {
		return errors.New("run ID required")
	}
	if sr.minFreq != nil && sr.maxFreq != nil && *sr.minFreq > *sr.maxFreq {
		return fmt.Errorf("min frequency %f is greater than max frequency %f", *sr.minFreq, *sr.maxFreq)
	}

	query, args := sr.buildQuery()

	stmt, err := sr.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if sr.rows, err = stmt.QueryContext(ctx, args...); err != nil {
		return fmt.Errorf("querying signals: %w", err)
	}
	return nil
}

func (sr *SignalReader) buildQuery() (string, []any) {
	var sb strings.Builder
	sb.WriteString(selectSignalsSQL)

	args := []any{sr.runID}

	if sr.modulation != nil {
		sb.WriteString(" AND modulation_type = ?")
		args = append(args, *sr.modulation)
	}
	if sr.minWidth != nil {
		sb.WriteString(" AND width_bins >= ?")
		args = append(args, *sr.minWidth)
	}
	if sr.minFreq != nil {
		sb.WriteString(" AND center_freq >= ?")
		args = append(args, *sr.minFreq)
	}
	if sr.maxFreq != nil {
		sb.WriteString(" AND center_freq <= ?")
		args = append(args, *sr.maxFreq)
	}

	sb.WriteString(" ORDER BY position")
	return sb.String(), args
}

// Next advances the iterator and returns true if there is another signal to
// read, false when the iteration is complete or an error occurred.
func (sr *SignalReader) Next(ctx context.Context) bool {
	if sr.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		sr.err = err
		return false
	}
	if !sr.rows.Next() {
		return false
	}

	var data signalData
	if err := sr.rows.Scan(&data.Position, &data.WidthBins, &data.SNR, &data.CenterFreq, &data.OccupiedBins, &data.GuardBins, &data.ModulationType); err != nil {
		sr.err = fmt.Errorf("scanning signal: %w", err)
		return false
	}

	signal, err := toSignal(&data)
	if err != nil {
		sr.err = err
		return false
	}

	sr.current = signal
	return true
}

// Current returns the current signal in the iteration.
// If called after Next() returns false, the behavior is undefined.
func (sr *SignalReader) Current() *bandplan.Signal {
	return sr.current
}

// Error returns any error that occurred during iteration. When Next()
// returns false, Error() distinguishes end of data from a failure.
func (sr *SignalReader) Error() error {
	if sr.err != nil {
		return sr.err
	}
	return sr.rows.Err()
}

// Close releases the database resources held by the reader.
func (sr *SignalReader) Close() error {
	return sr.rows.Close()
}
