package replay

import (
	"fmt"

	"github.com/orion-dtc/conscious-twin/internal/twin"
)

// #region types

// Divergence describes one field at one chain position that failed to
// reproduce.
type Divergence struct {
	Seq   int    // 1-based chain position
	Field string // "level" | "score" | "proof_hash"
	Want  string
	Got   string
}

func (d Divergence) String() string {
	return fmt.Sprintf("seq %d: %s recorded %s, replayed %s", d.Seq, d.Field, d.Want, d.Got)
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalSteps int
	Matched    int
	Diverged   int
	FinalLevel string
	FinalScore float64
	ChainHead  string
}

// #endregion types

// #region replay

// Replay feeds a recorded snapshot sequence through a fresh engine and
// returns the resulting assessments. The engine is history-dependent, so the
// sequence must start at the twin's first snapshot; replaying a suffix would
// score against the wrong histories.
func Replay(twinID, deviceID string, snapshots []twin.PhysicalState) []twin.TwinState {
	eng := twin.New(twinID, deviceID)
	results := make([]twin.TwinState, 0, len(snapshots))
	for _, snap := range snapshots {
		results = append(results, eng.Sync(snap))
	}
	return results
}

// #endregion replay

// #region compare

// Compare checks replayed assessments against expected results, matching by
// sequence position. Expected entries beyond the replayed range are reported
// as missing.
func Compare(results []twin.TwinState, expected []FixtureExpectedResult) []Divergence {
	var divergences []Divergence
	for _, exp := range expected {
		if exp.Seq < 1 || exp.Seq > len(results) {
			divergences = append(divergences, Divergence{
				Seq:   exp.Seq,
				Field: "proof_hash",
				Want:  exp.ProofHash,
				Got:   "(no replayed step)",
			})
			continue
		}
		got := results[exp.Seq-1]
		if got.ConsciousnessLevel != exp.Level {
			divergences = append(divergences, Divergence{
				Seq: exp.Seq, Field: "level", Want: exp.Level, Got: got.ConsciousnessLevel,
			})
		}
		if got.ConsciousnessScore != exp.Score {
			divergences = append(divergences, Divergence{
				Seq:   exp.Seq,
				Field: "score",
				Want:  fmt.Sprintf("%.4f", exp.Score),
				Got:   fmt.Sprintf("%.4f", got.ConsciousnessScore),
			})
		}
		if got.ProofHash != exp.ProofHash {
			divergences = append(divergences, Divergence{
				Seq: exp.Seq, Field: "proof_hash", Want: exp.ProofHash, Got: got.ProofHash,
			})
		}
	}
	return divergences
}

// #endregion compare

// #region summary

// Summarize aggregates a replay run. Matched counts expected entries with no
// divergence on any field.
func Summarize(results []twin.TwinState, expected []FixtureExpectedResult, divergences []Divergence) Summary {
	divergedSeqs := make(map[int]bool)
	for _, d := range divergences {
		divergedSeqs[d.Seq] = true
	}

	s := Summary{
		TotalSteps: len(results),
		Diverged:   len(divergedSeqs),
		Matched:    len(expected) - len(divergedSeqs),
	}
	if len(results) > 0 {
		last := results[len(results)-1]
		s.FinalLevel = last.ConsciousnessLevel
		s.FinalScore = last.ConsciousnessScore
		s.ChainHead = last.ProofHash
	}
	return s
}

// #endregion summary
