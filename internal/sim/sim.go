package sim

import (
	"math/rand"
	"time"

	"github.com/orion-dtc/conscious-twin/internal/twin"
)

// #region source

// Source generates a reproducible sequence of physical snapshots from a
// device profile. The same seed produces the same readings; only timestamps
// come from the clock.
type Source struct {
	profile DeviceProfile
	rng     *rand.Rand
	step    int

	// Clock supplies snapshot timestamps; tests may replace it.
	Clock func() time.Time
}

// NewSource creates a source seeded from the profile.
func NewSource(profile DeviceProfile) *Source {
	return &Source{
		profile: profile,
		rng:     rand.New(rand.NewSource(profile.Seed)),
		Clock:   time.Now,
	}
}

// Step returns the number of snapshots generated so far.
func (s *Source) Step() int { return s.step }

// #endregion source

// #region next

// Next produces the next snapshot: per-sensor base + noise + drift, actuator
// positions in [0,1), and health decaying toward its floor.
func (s *Source) Next() twin.PhysicalState {
	sensors := make(map[string]float64, len(s.profile.Sensors))
	for _, sp := range s.profile.Sensors {
		v := sp.Base + s.rng.Float64()*sp.Noise + float64(s.step)*sp.Drift
		if sp.Floor != 0 {
			v = max(v, sp.Floor)
		}
		sensors[sp.Name] = v
	}

	actuators := make(map[string]float64, len(s.profile.Actuators))
	for _, name := range s.profile.Actuators {
		actuators[name] = s.rng.Float64()
	}

	health := max(s.profile.HealthFloor, 1.0-float64(s.step)*s.profile.HealthDecay)

	snap := twin.PhysicalState{
		DeviceID:  s.profile.DeviceID,
		Sensors:   sensors,
		Actuators: actuators,
		Health:    health,
		Timestamp: s.Clock().UTC().Format(time.RFC3339Nano),
	}
	s.step++
	return snap
}

// #endregion next
