package proof

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// #region record
// Record is the canonical per-assessment payload fed into the proof chain.
// Field names are the canonical JSON keys; the score must already be rounded
// to 6 decimals by the caller.
type Record struct {
	TwinID    string  `json:"twin_id"`
	Timestamp string  `json:"timestamp"`
	Score     float64 `json:"score"`
	Level     string  `json:"level"`
	Anomalies int     `json:"anomalies"`
}

// #endregion record

// #region hash
// Hash returns the SHA-256 hex digest of the RFC 8785 canonical JSON form of
// rec. It is total: a record that JSON cannot encode (non-finite score) falls back
// to a fixed key=value rendering so callers keep the no-fail contract.
func Hash(rec Record) string {
	if data, err := json.Marshal(rec); err == nil {
		if canonical, err := jcs.Transform(data); err == nil {
			sum := sha256.Sum256(canonical)
			return hex.EncodeToString(sum[:])
		}
	}
	fallback := fmt.Sprintf("anomalies=%d|level=%s|score=%v|timestamp=%s|twin_id=%s",
		rec.Anomalies, rec.Level, rec.Score, rec.Timestamp, rec.TwinID)
	sum := sha256.Sum256([]byte(fallback))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether hash reproduces from rec.
func Verify(rec Record, hash string) bool {
	return Hash(rec) == hash
}

// #endregion hash

// #region verify-chain
// VerifyChain recomputes every record's hash against the recorded chain.
// Returns nil when the chain reproduces exactly.
func VerifyChain(records []Record, chain []string) error {
	if len(records) != len(chain) {
		return fmt.Errorf("chain length %d does not match %d records", len(chain), len(records))
	}
	for i, rec := range records {
		if got := Hash(rec); got != chain[i] {
			return fmt.Errorf("chain entry %d: recorded %s, recomputed %s", i, chain[i], got)
		}
	}
	return nil
}

// #endregion verify-chain
