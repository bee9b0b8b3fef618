package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/orion-dtc/conscious-twin/internal/replay"
	"github.com/orion-dtc/conscious-twin/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the twin SQLite database")
	twinID := flag.String("twin", "", "twin ID (default: only twin in the database)")
	limit := flag.Int("limit", 0, "export only the first N snapshots (0 = all)")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--twin id] [--limit N]")
		os.Exit(2)
	}

	if err := run(*dbPath, *twinID, *limit, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath, twinID string, limit int, outPath string) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	if twinID == "" {
		twins, err := st.ListTwins()
		if err != nil {
			return err
		}
		if len(twins) != 1 {
			return fmt.Errorf("could not resolve twin ID (%d twins), pass --twin", len(twins))
		}
		twinID = twins[0]
	}

	snaps, err := st.LoadSnapshots(twinID)
	if err != nil {
		return fmt.Errorf("load snapshots: %w", err)
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no snapshots recorded for twin %s", twinID)
	}

	assessments, err := st.ListAssessments(twinID, 0)
	if err != nil {
		return fmt.Errorf("load assessments: %w", err)
	}

	// The engine is history-dependent, so a fixture must always start at the
	// first snapshot; limit truncates the tail, never the head.
	if limit > 0 && limit < len(snaps) {
		snaps = snaps[:limit]
	}

	fixture := replay.Fixture{
		Description: fmt.Sprintf("exported from %s, twin %s, %d snapshots", dbPath, twinID, len(snaps)),
		TwinID:      twinID,
		DeviceID:    snaps[0].DeviceID,
		Snapshots:   make([]replay.FixtureSnapshot, len(snaps)),
	}
	for i, s := range snaps {
		fixture.Snapshots[i] = replay.FixtureSnapshot{
			Sensors:   s.Sensors,
			Actuators: s.Actuators,
			Health:    s.Health,
			Timestamp: s.Timestamp,
		}
	}

	// ListAssessments returns DESC; collect expectations for the exported range
	// in chronological order.
	for i := len(assessments) - 1; i >= 0; i-- {
		rec := assessments[i]
		if rec.Seq > len(snaps) {
			continue
		}
		fixture.ExpectedResults = append(fixture.ExpectedResults, replay.FixtureExpectedResult{
			Seq:       rec.Seq,
			Level:     rec.Level,
			Score:     rec.Score,
			ProofHash: rec.ProofHash,
		})
	}

	if err := replay.SaveFixture(outPath, fixture); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d snapshots, %d expected results\n",
		outPath, len(fixture.Snapshots), len(fixture.ExpectedResults))
	return nil
}

// #endregion export
