package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// #region profile

// SensorProfile describes one simulated sensor. Each step produces
// base + uniform()*noise + step*drift, floored at Floor when Floor is set.
// Negative noise or drift model degrading readings.
type SensorProfile struct {
	Name  string  `yaml:"name"`
	Base  float64 `yaml:"base"`
	Noise float64 `yaml:"noise"`
	Drift float64 `yaml:"drift"`
	Floor float64 `yaml:"floor,omitempty"`
}

// DeviceProfile describes a simulated device: its sensors, actuators, health
// decay, and the RNG seed that makes a run reproducible.
type DeviceProfile struct {
	TwinID      string          `yaml:"twin_id"`
	DeviceID    string          `yaml:"device_id"`
	Seed        int64           `yaml:"seed"`
	Sensors     []SensorProfile `yaml:"sensors"`
	Actuators   []string        `yaml:"actuators"`
	HealthDecay float64         `yaml:"health_decay"`
	HealthFloor float64         `yaml:"health_floor"`
}

// #endregion profile

// #region load

// LoadProfile reads a device profile from a YAML file.
func LoadProfile(path string) (DeviceProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DeviceProfile{}, fmt.Errorf("read profile: %w", err)
	}
	var p DeviceProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return DeviceProfile{}, fmt.Errorf("parse profile: %w", err)
	}
	if len(p.Sensors) == 0 {
		return DeviceProfile{}, fmt.Errorf("profile %s defines no sensors", path)
	}
	return p, nil
}

// #endregion load

// #region default

// DefaultProfile returns a degrading robot-arm profile: temperature creeps
// up, position accuracy and health decay toward their floors.
func DefaultProfile() DeviceProfile {
	return DeviceProfile{
		TwinID:   "DT-KUKA-KR6-01",
		DeviceID: "robot-arm-kuka-kr6",
		Seed:     42,
		Sensors: []SensorProfile{
			{Name: "temperature", Base: 25.0, Noise: 5.0, Drift: 0.3},
			{Name: "vibration", Base: 0.1, Noise: 0.3},
			{Name: "current", Base: 2.5, Noise: 1.0},
			{Name: "torque_j1", Base: 10.0, Noise: 5.0},
			{Name: "torque_j2", Base: 8.0, Noise: 4.0},
			{Name: "position_accuracy", Base: 0.99, Noise: -0.05, Drift: -0.02, Floor: 0.1},
		},
		Actuators:   []string{"joint_1", "joint_2"},
		HealthDecay: 0.03,
		HealthFloor: 0.3,
	}
}

// #endregion default
