package replay

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/orion-dtc/conscious-twin/internal/sim"
	"github.com/orion-dtc/conscious-twin/internal/store"
	"github.com/orion-dtc/conscious-twin/internal/twin"
)

// TestReplayFromStore runs a full simulated session, persists it, reloads the
// snapshots from SQLite, and checks the hash chain reproduces. This guards
// the round-trip through JSON sensor columns and REAL score columns, not
// just the in-memory engine.
func TestReplayFromStore(t *testing.T) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "twin.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer st.Close()

	profile := sim.DefaultProfile()
	source := sim.NewSource(profile)
	source.Clock = func() time.Time {
		return time.Date(2026, 1, 1, 0, 0, source.Step(), 0, time.UTC)
	}
	eng := twin.New(profile.TwinID, profile.DeviceID)

	var expected []FixtureExpectedResult
	for i := 0; i < 15; i++ {
		snap := source.Next()
		state := eng.Sync(snap)

		if err := st.SaveSnapshot(store.SnapshotRecord{
			TwinID:    profile.TwinID,
			DeviceID:  snap.DeviceID,
			Sensors:   snap.Sensors,
			Actuators: snap.Actuators,
			Health:    snap.Health,
			Timestamp: snap.Timestamp,
		}); err != nil {
			t.Fatalf("SaveSnapshot %d: %v", i, err)
		}
		if _, err := st.SaveAssessment(store.AssessmentRecord{
			TwinID:             profile.TwinID,
			Seq:                i + 1,
			SyncAccuracy:       state.SyncAccuracy,
			PredictionAccuracy: state.PredictionAccuracy,
			Anomalies:          state.AnomaliesDetected,
			Level:              state.ConsciousnessLevel,
			Score:              state.ConsciousnessScore,
			ProofHash:          state.ProofHash,
			SnapshotTimestamp:  snap.Timestamp,
		}); err != nil {
			t.Fatalf("SaveAssessment %d: %v", i, err)
		}

		expected = append(expected, FixtureExpectedResult{
			Seq:       i + 1,
			Level:     state.ConsciousnessLevel,
			Score:     state.ConsciousnessScore,
			ProofHash: state.ProofHash,
		})
	}

	snaps, err := st.LoadSnapshots(profile.TwinID)
	if err != nil {
		t.Fatalf("LoadSnapshots: %v", err)
	}
	if len(snaps) != 15 {
		t.Fatalf("expected 15 snapshots, got %d", len(snaps))
	}

	physical := make([]twin.PhysicalState, len(snaps))
	for i, s := range snaps {
		physical[i] = twin.PhysicalState{
			DeviceID:  s.DeviceID,
			Sensors:   s.Sensors,
			Actuators: s.Actuators,
			Health:    s.Health,
			Timestamp: s.Timestamp,
		}
	}

	results := Replay(profile.TwinID, profile.DeviceID, physical)
	divergences := Compare(results, expected)
	for _, d := range divergences {
		t.Errorf("divergence after store round-trip: %s", d)
	}

	// Stored chain head must match the replayed head.
	seq, hash, err := st.ChainHead(profile.TwinID)
	if err != nil {
		t.Fatalf("ChainHead: %v", err)
	}
	if seq != 15 || hash != results[14].ProofHash {
		t.Errorf("chain head: got seq %d hash %s, want seq 15 hash %s", seq, hash, results[14].ProofHash)
	}
}
