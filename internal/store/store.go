package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	twin_id        TEXT NOT NULL,
	device_id      TEXT NOT NULL,
	sensors_json   TEXT NOT NULL,
	actuators_json TEXT NOT NULL,
	health         REAL NOT NULL,
	timestamp      TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS assessments (
	assessment_id       TEXT PRIMARY KEY,
	twin_id             TEXT NOT NULL,
	seq                 INTEGER NOT NULL,
	sync_accuracy       REAL NOT NULL,
	prediction_accuracy REAL NOT NULL,
	anomalies           INTEGER NOT NULL,
	level               TEXT NOT NULL,
	score               REAL NOT NULL,
	proof_hash          TEXT NOT NULL,
	snapshot_timestamp  TEXT NOT NULL,
	created_at          TEXT NOT NULL,
	UNIQUE (twin_id, seq)
);

CREATE TABLE IF NOT EXISTS audit_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	twin_id         TEXT NOT NULL,
	seq             INTEGER NOT NULL,
	indicators_json TEXT,
	level           TEXT NOT NULL,
	score           REAL NOT NULL,
	proof_hash      TEXT NOT NULL,
	created_at      TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store persists snapshots and assessments in SQLite. The twin engine itself
// stays in-memory; the store is the host-side record of its inputs and
// outputs.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. audit).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save-snapshot
// SaveSnapshot appends a physical snapshot row.
func (s *Store) SaveSnapshot(rec SnapshotRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	sensorsJSON, err := json.Marshal(rec.Sensors)
	if err != nil {
		return fmt.Errorf("marshal sensors: %w", err)
	}
	actuatorsJSON, err := json.Marshal(rec.Actuators)
	if err != nil {
		return fmt.Errorf("marshal actuators: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO snapshots (twin_id, device_id, sensors_json, actuators_json, health, timestamp, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.TwinID, rec.DeviceID, string(sensorsJSON), string(actuatorsJSON),
		rec.Health, rec.Timestamp, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// #endregion save-snapshot

// #region load-snapshots
// LoadSnapshots returns all snapshots for a twin in insertion order, so a
// replay through a fresh engine sees them exactly as the original run did.
func (s *Store) LoadSnapshots(twinID string) ([]SnapshotRecord, error) {
	rows, err := s.db.Query(
		`SELECT twin_id, device_id, sensors_json, actuators_json, health, timestamp, created_at
		 FROM snapshots WHERE twin_id = ? ORDER BY id ASC`, twinID,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var records []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		var sensorsJSON, actuatorsJSON, createdStr string
		if err := rows.Scan(&rec.TwinID, &rec.DeviceID, &sensorsJSON, &actuatorsJSON,
			&rec.Health, &rec.Timestamp, &createdStr); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(sensorsJSON), &rec.Sensors); err != nil {
			return nil, fmt.Errorf("unmarshal sensors: %w", err)
		}
		if err := json.Unmarshal([]byte(actuatorsJSON), &rec.Actuators); err != nil {
			return nil, fmt.Errorf("unmarshal actuators: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion load-snapshots

// #region save-assessment
// SaveAssessment appends an assessment row. A missing AssessmentID is filled
// with a fresh UUID.
func (s *Store) SaveAssessment(rec AssessmentRecord) (string, error) {
	if rec.AssessmentID == "" {
		rec.AssessmentID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO assessments (assessment_id, twin_id, seq, sync_accuracy, prediction_accuracy,
		                          anomalies, level, score, proof_hash, snapshot_timestamp, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AssessmentID, rec.TwinID, rec.Seq, rec.SyncAccuracy, rec.PredictionAccuracy,
		rec.Anomalies, rec.Level, rec.Score, rec.ProofHash, rec.SnapshotTimestamp,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert assessment: %w", err)
	}
	return rec.AssessmentID, nil
}

// #endregion save-assessment

// #region list-assessments
// ListAssessments returns up to limit most recent assessments for a twin,
// newest first. limit <= 0 returns all.
func (s *Store) ListAssessments(twinID string, limit int) ([]AssessmentRecord, error) {
	q := `SELECT assessment_id, twin_id, seq, sync_accuracy, prediction_accuracy,
	             anomalies, level, score, proof_hash, snapshot_timestamp, created_at
	      FROM assessments WHERE twin_id = ? ORDER BY seq DESC`
	args := []any{twinID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var records []AssessmentRecord
	for rows.Next() {
		var rec AssessmentRecord
		var createdStr string
		if err := rows.Scan(&rec.AssessmentID, &rec.TwinID, &rec.Seq, &rec.SyncAccuracy,
			&rec.PredictionAccuracy, &rec.Anomalies, &rec.Level, &rec.Score,
			&rec.ProofHash, &rec.SnapshotTimestamp, &createdStr); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-assessments

// #region chain
// ChainHead returns the highest sequence number and its proof hash for a
// twin. An empty chain returns (0, "", nil).
func (s *Store) ChainHead(twinID string) (int, string, error) {
	var seq int
	var hash string
	err := s.db.QueryRow(
		`SELECT seq, proof_hash FROM assessments WHERE twin_id = ? ORDER BY seq DESC LIMIT 1`,
		twinID,
	).Scan(&seq, &hash)
	if err == sql.ErrNoRows {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("chain head: %w", err)
	}
	return seq, hash, nil
}

// ChainLength returns the number of assessments recorded for a twin.
func (s *Store) ChainLength(twinID string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM assessments WHERE twin_id = ?`, twinID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("chain length: %w", err)
	}
	return n, nil
}

// ListTwins returns the distinct twin IDs present in the assessments table.
func (s *Store) ListTwins() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT twin_id FROM assessments ORDER BY twin_id`)
	if err != nil {
		return nil, fmt.Errorf("list twins: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan twin id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// #endregion chain
