package audit

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-assessment
// LogAssessment writes one audit row to the audit_log table.
func LogAssessment(db *sql.DB, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO audit_log (twin_id, seq, indicators_json, level, score, proof_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.TwinID,
		entry.Seq,
		nullIfEmpty(entry.IndicatorsJSON),
		entry.Level,
		entry.Score,
		entry.ProofHash,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log assessment: %w", err)
	}
	return nil
}

// #endregion log-assessment

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
