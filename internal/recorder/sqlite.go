package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"SignalBench/internal/model"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists backtest runs and their trades to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while a batch writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			interval      TEXT,
			period        TEXT,
			outcome       TEXT NOT NULL,
			bars          INTEGER,
			trades        INTEGER,
			wins          INTEGER,
			win_rate      REAL,
			avg_return    REAL,
			total_return  REAL,
			best_return   REAL,
			worst_return  REAL,
			open_entry    REAL,
			reason        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON backtest_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL REFERENCES backtest_runs(id),
			seq         INTEGER NOT NULL,
			entry_time  INTEGER,
			exit_time   INTEGER,
			entry_price REAL,
			exit_price  REAL,
			return_pct  REAL,
			forced      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON backtest_trades(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordResult stores one run row and one row per closed trade in a single transaction.
func (r *SQLiteRecorder) RecordResult(res *model.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := res.RunAt
	if ts.IsZero() {
		ts = time.Now()
	}
	var openEntry sql.NullFloat64
	if res.OpenPosition != nil {
		openEntry = sql.NullFloat64{Float64: res.OpenPosition.EntryPrice, Valid: true}
	}
	s := res.Summary
	runID := runIDOf(res)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO backtest_runs
		(id, timestamp, symbol, interval, period, outcome, bars,
		 trades, wins, win_rate, avg_return, total_return, best_return, worst_return,
		 open_entry, reason)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runID, ts.Unix(), res.Symbol, string(res.Request.Interval), string(res.Request.Period),
		string(res.Outcome), res.Bars,
		s.Trades, s.Wins, s.WinRate, s.AvgReturn, s.TotalReturn, s.Best, s.Worst,
		openEntry, res.Reason,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, t := range res.Trades {
		if _, err := tx.Exec(`INSERT INTO backtest_trades
			(run_id, seq, entry_time, exit_time, entry_price, exit_price, return_pct, forced)
			VALUES (?,?,?,?,?,?,?,?)`,
			runID, i, t.EntryTime.Unix(), t.ExitTime.Unix(),
			t.EntryPrice, t.ExitPrice, t.ReturnPct, t.Forced,
		); err != nil {
			return fmt.Errorf("insert trade %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
