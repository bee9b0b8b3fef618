package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/orion-dtc/conscious-twin/internal/replay"
	"github.com/orion-dtc/conscious-twin/internal/store"
	"github.com/orion-dtc/conscious-twin/internal/twin"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to twin_state.db (DB mode)")
	twinID := flag.String("twin", "", "twin ID for DB mode (default: only twin in the database)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/twin_state.db [--twin id]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *twinID)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string) int {
	fixture, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	results := replay.Replay(fixture.TwinID, fixture.DeviceID, fixture.ToSnapshots())
	divergences := replay.Compare(results, fixture.ExpectedResults)
	report(fixture.TwinID, results, fixture.ExpectedResults, divergences)

	if len(divergences) > 0 {
		return 1
	}
	return 0
}

// #endregion fixture-mode

// #region db-mode

func runDBMode(dbPath, twinID string) int {
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 1
	}
	defer st.Close()

	if twinID == "" {
		twins, err := st.ListTwins()
		if err != nil || len(twins) != 1 {
			fmt.Fprintln(os.Stderr, "error: could not resolve twin ID, pass --twin")
			return 1
		}
		twinID = twins[0]
	}

	snaps, err := st.LoadSnapshots(twinID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load snapshots: %v\n", err)
		return 1
	}
	if len(snaps) == 0 {
		fmt.Fprintf(os.Stderr, "no snapshots recorded for twin %s\n", twinID)
		return 1
	}

	assessments, err := st.ListAssessments(twinID, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load assessments: %v\n", err)
		return 1
	}

	expected := make([]replay.FixtureExpectedResult, len(assessments))
	for i, rec := range assessments {
		// ListAssessments returns DESC, reverse for chronological order
		expected[len(assessments)-1-i] = replay.FixtureExpectedResult{
			Seq:       rec.Seq,
			Level:     rec.Level,
			Score:     rec.Score,
			ProofHash: rec.ProofHash,
		}
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

	results := replay.Replay(twinID, snaps[0].DeviceID, physical)
	divergences := replay.Compare(results, expected)
	report(twinID, results, expected, divergences)

	if len(divergences) > 0 {
		return 1
	}
	return 0
}

// #endregion db-mode

// #region report

func report(twinID string, results []twin.TwinState, expected []replay.FixtureExpectedResult, divergences []replay.Divergence) {
	summary := replay.Summarize(results, expected, divergences)

	fmt.Printf("Replay: twin %s, %d steps, %d expected results\n",
		twinID, summary.TotalSteps, len(expected))
	fmt.Printf("  matched: %d, diverged: %d\n", summary.Matched, summary.Diverged)
	if summary.TotalSteps > 0 {
		fmt.Printf("  final: %s (%.4f), chain head %s\n",
			summary.FinalLevel, summary.FinalScore, summary.ChainHead)
	}

	for _, d := range divergences {
		fmt.Printf("  DIVERGED %s\n", d)
	}
	if len(divergences) == 0 && len(expected) > 0 {
		fmt.Println("  proof chain reproduced exactly")
	}
}

// #endregion report
