package audit

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE audit_log (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		twin_id         TEXT NOT NULL,
		seq             INTEGER NOT NULL,
		indicators_json TEXT,
		level           TEXT NOT NULL,
		score           REAL NOT NULL,
		proof_hash      TEXT NOT NULL,
		created_at      TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// #endregion helpers

// #region log-assessment-tests
func TestLogAssessment_Success(t *testing.T) {
	db := setupDB(t)

	entry := Entry{
		TwinID:         "T1",
		Seq:            1,
		IndicatorsJSON: `{"sync_accuracy":0.5}`,
		Level:          "C-2 Emerging",
		Score:          0.5917,
		ProofHash:      "abc123",
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := LogAssessment(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM audit_log").Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	var level string
	var score float64
	db.QueryRow("SELECT level, score FROM audit_log WHERE twin_id = 'T1'").Scan(&level, &score)
	if level != "C-2 Emerging" || score != 0.5917 {
		t.Errorf("row round-trip: got %q %v", level, score)
	}
}

func TestLogAssessment_DefaultsCreatedAt(t *testing.T) {
	db := setupDB(t)

	entry := Entry{TwinID: "T1", Seq: 1, Level: "C-0 Reactive", ProofHash: "h"}
	if err := LogAssessment(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var createdAt string
	db.QueryRow("SELECT created_at FROM audit_log").Scan(&createdAt)
	if createdAt == "" {
		t.Error("expected created_at to be filled in")
	}
	if _, err := time.Parse(time.RFC3339Nano, createdAt); err != nil {
		t.Errorf("created_at not RFC3339Nano: %q", createdAt)
	}
}

func TestLogAssessment_EmptyIndicatorsStoredAsNull(t *testing.T) {
	db := setupDB(t)

	entry := Entry{TwinID: "T1", Seq: 1, Level: "C-0 Reactive", ProofHash: "h"}
	if err := LogAssessment(db, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var indicators sql.NullString
	db.QueryRow("SELECT indicators_json FROM audit_log").Scan(&indicators)
	if indicators.Valid {
		t.Errorf("expected NULL indicators_json, got %q", indicators.String)
	}
}

// #endregion log-assessment-tests
