package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/orion-dtc/conscious-twin/internal/twin"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a recorded
// snapshot sequence plus the per-step results the chain is expected to
// reproduce.
type Fixture struct {
	Description     string                  `json:"description"`
	TwinID          string                  `json:"twin_id"`
	DeviceID        string                  `json:"device_id"`
	Snapshots       []FixtureSnapshot       `json:"snapshots"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureSnapshot mirrors twin.PhysicalState with JSON tags.
type FixtureSnapshot struct {
	Sensors   map[string]float64 `json:"sensors"`
	Actuators map[string]float64 `json:"actuators,omitempty"`
	Health    float64            `json:"health"`
	Timestamp string             `json:"timestamp"`
}

// FixtureExpectedResult captures the expected assessment at one chain
// position (1-based).
type FixtureExpectedResult struct {
	Seq       int     `json:"seq"`
	Level     string  `json:"level"`
	Score     float64 `json:"score"`
	ProofHash string  `json:"proof_hash"`
}

// #endregion fixture-types

// #region load-save

// LoadFixture reads and parses a fixture JSON file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	return nil
}

// #endregion load-save

// #region conversion

// Snapshots converts the fixture's recorded snapshots into engine inputs.
func (f Fixture) ToSnapshots() []twin.PhysicalState {
	out := make([]twin.PhysicalState, len(f.Snapshots))
	for i, s := range f.Snapshots {
		out[i] = twin.PhysicalState{
			DeviceID:  f.DeviceID,
			Sensors:   s.Sensors,
			Actuators: s.Actuators,
			Health:    s.Health,
			Timestamp: s.Timestamp,
		}
	}
	return out
}

// #endregion conversion
