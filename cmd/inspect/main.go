package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/orion-dtc/conscious-twin/internal/replay"
	"github.com/orion-dtc/conscious-twin/internal/store"
	"github.com/orion-dtc/conscious-twin/internal/twin"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the twin SQLite database")
	twinID := flag.String("twin", "", "twin ID (default: only twin in the database)")
	last := flag.Int("last", 20, "show N most recent assessments")
	verify := flag.Bool("verify", false, "replay stored snapshots and check each stored proof hash reproduces")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/twin_state.db [--twin id] [--last N] [--verify] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	id, err := resolveTwin(st, *twinID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(st, id, *last, *verify, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region resolve-twin

func resolveTwin(st *store.Store, twinID string) (string, error) {
	if twinID != "" {
		return twinID, nil
	}
	twins, err := st.ListTwins()
	if err != nil {
		return "", err
	}
	switch len(twins) {
	case 0:
		return "", fmt.Errorf("no assessments found")
	case 1:
		return twins[0], nil
	default:
		return "", fmt.Errorf("multiple twins in database (%d), pass --twin", len(twins))
	}
}

// #endregion resolve-twin

// #region list

type listRow struct {
	Seq       int     `json:"seq"`
	Level     string  `json:"level"`
	Score     float64 `json:"score"`
	Sync      float64 `json:"sync_accuracy"`
	Anomalies int     `json:"anomalies"`
	ProofHash string  `json:"proof_hash"`
	Verified  *bool   `json:"verified,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func run(st *store.Store, twinID string, last int, verify, jsonOut bool) error {
	records, err := st.ListAssessments(twinID, last)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no assessments found")
		return nil
	}

	// The hash covers the 6-decimal score, which the assessment row does not
	// carry, so verification replays the full snapshot sequence instead of
	// recomputing per row.
	var replayed []twin.TwinState
	if verify {
		snaps, err := st.LoadSnapshots(twinID)
		if err != nil {
			return err
		}
		replayed = replay.Replay(twinID, deviceIDOf(snaps), toPhysical(snaps))
	}

	// Store returns DESC, reverse for chronological display
	rows := make([]listRow, len(records))
	mismatches := 0
	for i, rec := range records {
		lr := listRow{
			Seq:       rec.Seq,
			Level:     rec.Level,
			Score:     rec.Score,
			Sync:      rec.SyncAccuracy,
			Anomalies: rec.Anomalies,
			ProofHash: rec.ProofHash,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if verify {
			ok := rec.Seq >= 1 && rec.Seq <= len(replayed) &&
				replayed[rec.Seq-1].ProofHash == rec.ProofHash
			lr.Verified = &ok
			if !ok {
				mismatches++
			}
		}
		rows[len(records)-1-i] = lr
	}

	if jsonOut {
		if err := printJSON(rows); err != nil {
			return err
		}
	} else {
		printTable(rows, twinID, verify)
	}

	if verify && mismatches > 0 {
		return fmt.Errorf("%d proof hash(es) failed verification", mismatches)
	}
	return nil
}

func printTable(rows []listRow, twinID string, verify bool) {
	fmt.Printf("Twin: %s\n\n", twinID)
	if verify {
		fmt.Printf("%4s  %-18s  %7s  %6s  %4s  %-5s  %-20s  %s\n",
			"Seq", "Level", "Score", "Sync", "Anom", "Proof", "Time", "Hash")
	} else {
		fmt.Printf("%4s  %-18s  %7s  %6s  %4s  %-20s  %s\n",
			"Seq", "Level", "Score", "Sync", "Anom", "Time", "Hash")
	}

	for _, r := range rows {
		hash := r.ProofHash
		if len(hash) > 16 {
			hash = hash[:16]
		}
		if verify {
			status := "ok"
			if r.Verified != nil && !*r.Verified {
				status = "FAIL"
			}
			fmt.Printf("%4d  %-18s  %7.4f  %6.3f  %4d  %-5s  %-20s  %s\n",
				r.Seq, r.Level, r.Score, r.Sync, r.Anomalies, status, r.CreatedAt, hash)
		} else {
			fmt.Printf("%4d  %-18s  %7.4f  %6.3f  %4d  %-20s  %s\n",
				r.Seq, r.Level, r.Score, r.Sync, r.Anomalies, r.CreatedAt, hash)
		}
	}

	head := rows[len(rows)-1]
	fmt.Printf("\nChain head: seq %d, %s\n", head.Seq, head.ProofHash)
}

// #endregion list

// #region conversion

func toPhysical(snaps []store.SnapshotRecord) []twin.PhysicalState {
	out := make([]twin.PhysicalState, len(snaps))
	for i, s := range snaps {
		out[i] = twin.PhysicalState{
			DeviceID:  s.DeviceID,
			Sensors:   s.Sensors,
			Actuators: s.Actuators,
			Health:    s.Health,
			Timestamp: s.Timestamp,
		}
	}
	return out
}

func deviceIDOf(snaps []store.SnapshotRecord) string {
	if len(snaps) == 0 {
		return ""
	}
	return snaps[0].DeviceID
}

// #endregion conversion

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output
