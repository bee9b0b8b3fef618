package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/orion-dtc/conscious-twin/internal/audit"
	"github.com/orion-dtc/conscious-twin/internal/sim"
	"github.com/orion-dtc/conscious-twin/internal/store"
	"github.com/orion-dtc/conscious-twin/internal/twin"
)

// #region main
func main() {
	dbPath := flag.String("db", envOr("TWIN_DB", "twin_state.db"), "path to the twin SQLite database")
	profilePath := flag.String("profile", "", "device profile YAML (default: built-in robot-arm profile)")
	steps := flag.Int("steps", 15, "number of sync cycles to run")
	interval := flag.Duration("interval", 0, "pause between sync cycles")
	flag.Parse()

	profile := sim.DefaultProfile()
	if *profilePath != "" {
		p, err := sim.LoadProfile(*profilePath)
		if err != nil {
			log.Fatalf("load profile: %v", err)
		}
		profile = p
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	source := sim.NewSource(profile)
	eng := twin.New(profile.TwinID, profile.DeviceID)

	fmt.Printf("Conscious Digital Twin controller\n")
	fmt.Printf("  twin: %s | device: %s | db: %s\n\n", profile.TwinID, profile.DeviceID, *dbPath)

	for i := 0; i < *steps; i++ {
		snap := source.Next()
		state := eng.Sync(snap)

		if err := persist(st, snap, state, eng.ChainLength()); err != nil {
			log.Printf("persist step %d: %v", i, err)
		}

		fmt.Printf("  T=%2d | %-18s | Score: %.4f | Sync: %.3f | Anomalies: %d\n",
			i, state.ConsciousnessLevel, state.ConsciousnessScore,
			state.SyncAccuracy, state.AnomaliesDetected)

		if *interval > 0 && i < *steps-1 {
			time.Sleep(*interval)
		}
	}

	fmt.Printf("\nTotal proof chain: %d entries\n", eng.ChainLength())
	if h := eng.LatestProof(); h != "" {
		fmt.Printf("Latest proof: %s...\n", h[:32])
	}
}

// #endregion main

// #region persist
// persist writes the snapshot, the assessment, and an audit row for one sync
// cycle. seq is the 1-based chain position.
func persist(st *store.Store, snap twin.PhysicalState, state twin.TwinState, seq int) error {
	err := st.SaveSnapshot(store.SnapshotRecord{
		TwinID:    state.TwinID,
		DeviceID:  snap.DeviceID,
		Sensors:   snap.Sensors,
		Actuators: snap.Actuators,
		Health:    snap.Health,
		Timestamp: snap.Timestamp,
	})
	if err != nil {
		return err
	}

	_, err = st.SaveAssessment(store.AssessmentRecord{
		TwinID:             state.TwinID,
		Seq:                seq,
		SyncAccuracy:       state.SyncAccuracy,
		PredictionAccuracy: state.PredictionAccuracy,
		Anomalies:          state.AnomaliesDetected,
		Level:              state.ConsciousnessLevel,
		Score:              state.ConsciousnessScore,
		ProofHash:          state.ProofHash,
		SnapshotTimestamp:  snap.Timestamp,
	})
	if err != nil {
		return err
	}

	indicatorsJSON, _ := json.Marshal(map[string]any{
		"sync_accuracy":       state.SyncAccuracy,
		"prediction_accuracy": state.PredictionAccuracy,
		"anomalies":           state.AnomaliesDetected,
	})
	return audit.LogAssessment(st.DB(), audit.Entry{
		TwinID:         state.TwinID,
		Seq:            seq,
		IndicatorsJSON: string(indicatorsJSON),
		Level:          state.ConsciousnessLevel,
		Score:          state.ConsciousnessScore,
		ProofHash:      state.ProofHash,
	})
}

// #endregion persist

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
