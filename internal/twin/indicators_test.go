package twin

import (
	"math"
	"testing"
)

// #region integration
func TestSensorIntegration(t *testing.T) {
	tests := []struct {
		name    string
		sensors map[string]float64
		want    float64
	}{
		{"empty", map[string]float64{}, 0},
		{"nil", nil, 0},
		{"single-reading", map[string]float64{"a": 42.0}, 0.3},
		{"homogeneous", map[string]float64{"a": 2.0, "b": 2.0, "c": 2.0}, 1.0},
		{"zero-mean", map[string]float64{"a": 1.0, "b": -1.0}, 0},
		{"high-variance-floors-at-zero", map[string]float64{"a": -1.0, "b": 10.0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sensorIntegration(PhysicalState{Sensors: tt.sensors})
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSensorIntegration_ModerateSpread(t *testing.T) {
	// values 9, 11: mean 10, stddev 1, cv 0.1 -> 0.9
	got := sensorIntegration(PhysicalState{Sensors: map[string]float64{"a": 9.0, "b": 11.0}})
	if math.Abs(got-0.9) > 1e-12 {
		t.Errorf("got %v, want 0.9", got)
	}
}

// #endregion integration

// #region attention
func TestAttentionFocus(t *testing.T) {
	tests := []struct {
		name   string
		health float64
		want   float64
	}{
		{"normal", 0.7, 0.7},
		{"clamped-above", 1.5, 1.0},
		{"exactly-one", 1.0, 1.0},
		{"negative-passes-through", -0.2, -0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attentionFocus(PhysicalState{Health: tt.health})
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// #endregion attention

// #region consistency
func TestBehavioralConsistency(t *testing.T) {
	scored := func(scores ...float64) *Twin {
		eng := New("T1", "D1")
		for _, s := range scores {
			eng.twinHistory = append(eng.twinHistory, TwinState{ConsciousnessScore: s})
		}
		return eng
	}

	t.Run("short-history-default", func(t *testing.T) {
		if got := scored().behavioralConsistency(); got != 0.5 {
			t.Errorf("empty: got %v, want 0.5", got)
		}
		if got := scored(0.5, 0.9).behavioralConsistency(); got != 0.5 {
			t.Errorf("two records: got %v, want 0.5", got)
		}
	})

	t.Run("stable-scores", func(t *testing.T) {
		if got := scored(0.6, 0.6, 0.6).behavioralConsistency(); got != 1.0 {
			t.Errorf("got %v, want 1.0 (zero variance)", got)
		}
	})

	t.Run("volatile-scores", func(t *testing.T) {
		got := scored(0.1, 0.9, 0.1, 0.9, 0.1).behavioralConsistency()
		// mean 0.42, variance 0.1536 -> 1 - 1.536 floors at 0
		if got != 0 {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("window-caps-at-five", func(t *testing.T) {
		// Old volatile scores fall outside the window; the last five are stable.
		got := scored(0.0, 1.0, 0.7, 0.7, 0.7, 0.7, 0.7).behavioralConsistency()
		if got != 1.0 {
			t.Errorf("got %v, want 1.0", got)
		}
	})
}

// #endregion consistency

// #region composite
func TestIndicatorsScore(t *testing.T) {
	in := Indicators{
		SituationAwareness: 0.6,
		SelfMonitoring:     0.3,
		Integration:        0.9,
		Prediction:         0.3,
		Attention:          1.0,
		Consistency:        0.5,
	}
	want := (0.6 + 0.3 + 0.9 + 0.3 + 1.0 + 0.5) / 6
	if got := in.Score(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSelfMonitoring_GrowsWithAssessments(t *testing.T) {
	eng := New("T1", "D1")

	if got := eng.selfMonitoring(); got != 0 {
		t.Errorf("no assessments: got %v, want 0", got)
	}

	eng.twinHistory = make([]TwinState, 5)
	if got := eng.selfMonitoring(); got != 0.5 {
		t.Errorf("5 assessments: got %v, want 0.5", got)
	}

	eng.twinHistory = make([]TwinState, 25)
	if got := eng.selfMonitoring(); got != 1.0 {
		t.Errorf("25 assessments: got %v, want 1.0 (saturated)", got)
	}
}

// #endregion composite
