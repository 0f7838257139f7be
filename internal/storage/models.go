package storage

import (
	"database/sql"
	"time"
)

type runData struct {
	ID        int64
	CreatedAt time.Time
	FreqSpan  float64
	NBins     int64
	NSignals  int64
	Seed      sql.NullInt64
	Params    sql.NullString
}

type signalData struct {
	Position       int64
	WidthBins      int64
	SNR            float64
	CenterFreq     float64
	OccupiedBins   string
	GuardBins      string
	ModulationType string
}
