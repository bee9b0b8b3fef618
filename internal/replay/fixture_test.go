package replay

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFixtureRoundTrip(t *testing.T) {
	fixture := Fixture{
		Description: "two-step smoke fixture",
		TwinID:      "T1",
		DeviceID:    "D1",
		Snapshots: []FixtureSnapshot{
			{Sensors: map[string]float64{"x": 1.0}, Health: 1.0, Timestamp: "t0"},
			{Sensors: map[string]float64{"x": 1.6}, Actuators: map[string]float64{"j1": 0.5}, Health: 0.9, Timestamp: "t1"},
		},
		ExpectedResults: []FixtureExpectedResult{
			{Seq: 1, Level: "C-2 Emerging", Score: 0.5167, ProofHash: "aa"},
			{Seq: 2, Level: "C-2 Emerging", Score: 0.5033, ProofHash: "bb"},
		},
	}

	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := SaveFixture(path, fixture); err != nil {
		t.Fatalf("SaveFixture: %v", err)
	}

	loaded, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	if loaded.TwinID != "T1" || loaded.DeviceID != "D1" {
		t.Errorf("identity round-trip: got %s/%s", loaded.TwinID, loaded.DeviceID)
	}
	if len(loaded.Snapshots) != 2 || len(loaded.ExpectedResults) != 2 {
		t.Fatalf("got %d snapshots, %d expected results", len(loaded.Snapshots), len(loaded.ExpectedResults))
	}
	if loaded.Snapshots[1].Sensors["x"] != 1.6 {
		t.Errorf("sensor round-trip: got %v", loaded.Snapshots[1].Sensors["x"])
	}
	if loaded.Snapshots[1].Actuators["j1"] != 0.5 {
		t.Errorf("actuator round-trip: got %v", loaded.Snapshots[1].Actuators["j1"])
	}
	if loaded.ExpectedResults[0].Score != 0.5167 {
		t.Errorf("score round-trip: got %v", loaded.ExpectedResults[0].Score)
	}
}

func TestFixture_ToSnapshots(t *testing.T) {
	fixture := Fixture{
		TwinID:   "T1",
		DeviceID: "D1",
		Snapshots: []FixtureSnapshot{
			{Sensors: map[string]float64{"x": 1.0}, Health: 0.8, Timestamp: "t0"},
		},
	}

	snaps := fixture.ToSnapshots()
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots", len(snaps))
	}
	if snaps[0].DeviceID != "D1" {
		t.Errorf("device ID: got %s", snaps[0].DeviceID)
	}
	if snaps[0].Health != 0.8 || snaps[0].Timestamp != "t0" {
		t.Errorf("fields: got %+v", snaps[0])
	}
}

func TestLoadFixture_MissingFile(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing fixture")
	}
}

func TestLoadFixture_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Error("expected error for malformed fixture")
	}
}
