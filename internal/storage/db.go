// Package storage keeps the run history and the review queue in a local
// sqlite database.
package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/CornwellsLTD/JasperCurrent/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  supplierCode TEXT NOT NULL,
  traceId TEXT NOT NULL,
  runDate TEXT NOT NULL,
  totalFiles INTEGER NOT NULL,
  skipped INTEGER NOT NULL,
  accepted INTEGER NOT NULL,
  needsReview INTEGER NOT NULL,
  rejected INTEGER NOT NULL,
  errors INTEGER NOT NULL,
  successRate REAL NOT NULL,
  durationMs REAL NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_supplier ON runs(supplierCode);

CREATE TABLE IF NOT EXISTS review_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  supplierCode TEXT NOT NULL,
  fullPath TEXT NOT NULL,
  confidence REAL NOT NULL,
  reason TEXT NOT NULL,
  fieldsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_review_supplier ON review_items(supplierCode);
`

	_, err := d.conn.Exec(schema)
	return err
}

type RunRecord struct {
	ID           int64
	SupplierCode string
	TraceID      string
	Stats        internal.RunStats
	DurationMs   float64
}

type ReviewItem struct {
	ID           int64
	RunID        int64
	SupplierCode string
	FullPath     string
	Confidence   float64
	Reason       string
	Fields       map[string]string
}

func (d *DB) InsertRun(code, traceID string, stats internal.RunStats, durationMs float64) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO runs (supplierCode, traceId, runDate, totalFiles, skipped, accepted, needsReview, rejected, errors, successRate, durationMs)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, code, traceID, stats.RunDate, stats.Total, stats.Skipped, stats.Accepted, stats.NeedsReview, stats.Rejected, stats.Errors, stats.SuccessRate, durationMs)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) ListRuns(code string, limit int) ([]RunRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, supplierCode, traceId, runDate, totalFiles, skipped, accepted, needsReview, rejected, errors, successRate, durationMs
FROM runs WHERE supplierCode = ? ORDER BY id DESC LIMIT ?
`, code, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.ID, &r.SupplierCode, &r.TraceID, &r.Stats.RunDate,
			&r.Stats.Total, &r.Stats.Skipped, &r.Stats.Accepted, &r.Stats.NeedsReview,
			&r.Stats.Rejected, &r.Stats.Errors, &r.Stats.SuccessRate, &r.DurationMs,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) InsertReviewItem(runID int64, code, fullPath string, confidence float64, reason string, fields map[string]string) error {
	fieldsJSON, _ := json.Marshal(fields)
	_, err := d.conn.Exec(`
INSERT INTO review_items (runId, supplierCode, fullPath, confidence, reason, fieldsJson)
VALUES (?, ?, ?, ?, ?, ?)
`, runID, code, fullPath, confidence, reason, string(fieldsJSON))
	return err
}

func (d *DB) ListReviewItems(code string, limit int) ([]ReviewItem, error) {
	rows, err := d.conn.Query(`
SELECT id, runId, supplierCode, fullPath, confidence, reason, fieldsJson
FROM review_items WHERE supplierCode = ? ORDER BY id DESC LIMIT ?
`, code, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReviewItem
	for rows.Next() {
		var item ReviewItem
		var fieldsJSON string
		if err := rows.Scan(&item.ID, &item.RunID, &item.SupplierCode, &item.FullPath, &item.Confidence, &item.Reason, &fieldsJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(fieldsJSON), &item.Fields)
		out = append(out, item)
	}
	return out, rows.Err()
}
