package storage

import (
	_ "embed"
)

//go:embed schema.sql
var initSchemaSQL string

const initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_signals_run_id ON signals (run_id);
CREATE INDEX IF NOT EXISTS idx_signals_modulation ON signals (modulation_type)`

const (
	insertRunSQL = `
INSERT INTO runs (created_at,
                  freq_span,
                  n_bins,
                  n_signals,
                  seed,
                  params)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?, ?, ?)`

	selectRunSQL = `
SELECT
    id,
    created_at,
    freq_span,
    n_bins,
    n_signals,
    seed,
    params
FROM runs
WHERE
    id = ?`

	selectRunsSQL = `
SELECT
    id,
    created_at,
    freq_span,
    n_bins,
    n_signals,
    seed,
    params
FROM runs
ORDER BY created_at, id`

	insertSignalSQL = `
INSERT INTO signals (run_id,
                     position,
                     width_bins,
                     snr,
                     center_freq,
                     occupied_bins,
                     guard_bins,
                     modulation_type)
VALUES `

	selectSignalsSQL = `
SELECT
    position,
    width_bins,
    snr,
    center_freq,
    occupied_bins,
    guard_bins,
    modulation_type
FROM signals
WHERE
    run_id = ?`
)
