package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spectrumlab/bandplan/internal/bandplan"
)

// SqliteStore handles band plan catalog operations backed by a SQLite
// database file.
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new catalog handle. Database connections are
// opened lazily; the schema is initialized on the first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) StorePlan(ctx context.Context, plan *bandplan.Plan, meta RunMeta) (runID int64, err error) {
	params, err := toNullParams(meta.Params)
	if err != nil {
		return 0, err
	}

	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	result, err := tx.ExecContext(ctx, insertRunSQL,
		plan.FreqSpan, plan.NBins, plan.NSignals, toNullSeed(meta.Seed), params)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	if runID, err = result.LastInsertId(); err != nil {
		return 0, fmt.Errorf("getting run ID: %w", err)
	}

	if len(plan.Signals) > 0 {
		if err = insertSignals(ctx, tx, runID, plan.Signals); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return runID, nil
}

func insertSignals(ctx context.Context, tx *sql.Tx, runID int64, signals []bandplan.Signal) error {
	values := make([]any, 0, len(signals)*8)
	valuesPlaceholder := "(?, ?, ?, ?, ?, ?, ?, ?)"

	var sb strings.Builder
	sb.WriteString(insertSignalSQL)

	for i, sig := range signals {
		occupied, err := encodeBins(sig.OccupiedBins)
		if err != nil {
			return err
		}
		guard, err := encodeBins(sig.GuardBins)
		if err != nil {
			return err
		}

		values = append(values,
			runID,
			i,
			sig.WidthBins,
			sig.SNR,
			sig.CenterFreq,
			occupied,
			guard,
			sig.ModulationType,
		)

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(valuesPlaceholder)
	}

	// Single batch insert
	if _, err := tx.ExecContext(ctx, sb.String(), values...); err != nil {
		return fmt.Errorf("batch inserting signals: %w", err)
	}
	return nil
}

func (s *SqliteStore) Run(ctx context.Context, id int64) (run *Run, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, selectRunSQL)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var data runData
	if err = stmt.QueryRowContext(ctx, id).Scan(&data.ID, &data.CreatedAt, &data.FreqSpan, &data.NBins, &data.NSignals, &data.Seed, &data.Params); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	return toRun(&data), nil
}

func (s *SqliteStore) Runs(ctx context.Context) (runs []*Run, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectRunsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data runData
		if err = rows.Scan(&data.ID, &data.CreatedAt, &data.FreqSpan, &data.NBins, &data.NSignals, &data.Seed, &data.Params); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, toRun(&data))
	}
	return runs, rows.Err()
}

// LoadPlan reassembles the complete band plan of a run. Signals come back
// in their original acceptance order.
func (s *SqliteStore) LoadPlan(ctx context.Context, runID int64) (plan *bandplan.Plan, err error) {
	run, err := s.Run(ctx, runID)
	if err != nil {
		return nil, err
	}

	reader, err := s.ReadSignals(ctx, runID)
	if err != nil {
		return nil, err
	}
	defer closeWithError(reader, &err)

	signals := make([]bandplan.Signal, 0, run.NSignals)
	for reader.Next(ctx) {
		signals = append(signals, *reader.Current())
	}
	if err = reader.Error(); err != nil {
		return nil, err
	}

	return &bandplan.Plan{
		FreqSpan: run.FreqSpan,
		NBins:    run.NBins,
		NSignals: len(signals),
		Signals:  signals,
	}, nil
}

// ReadSignals creates a SignalReader that iterates over the signals of a run
// in acceptance order, with optional filtering (WithModulation, WithMinWidth,
// WithFreqRange).
//
// The returned reader must be closed after use to release database resources.
// Each reader instance should only be used from a single goroutine.
func (s *SqliteStore) ReadSignals(ctx context.Context, runID int64, opts ...ReaderOption) (*SignalReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newSignalReader(ctx, db, runID, opts...)
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
