package audit

import "time"

// #region entry
// Entry is a single row in the audit_log table: the assessment outputs that
// fed the proof hash, plus the indicator breakdown for later inspection.
type Entry struct {
	TwinID         string
	Seq            int
	IndicatorsJSON string
	Level          string
	Score          float64
	ProofHash      string
	CreatedAt      time.Time
}

// #endregion entry
