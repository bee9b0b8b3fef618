package twin

import "math"

// #region indicators
// Indicators are the six per-snapshot sub-scores averaged (unweighted) into
// the composite consciousness score.
type Indicators struct {
	SituationAwareness float64 `json:"situation_awareness"`
	SelfMonitoring     float64 `json:"self_monitoring"`
	Integration        float64 `json:"integration"`
	Prediction         float64 `json:"prediction"`
	Attention          float64 `json:"attention"`
	Consistency        float64 `json:"consistency"`
}

// Score returns the unweighted mean of the six indicators.
func (in Indicators) Score() float64 {
	return (in.SituationAwareness + in.SelfMonitoring + in.Integration +
		in.Prediction + in.Attention + in.Consistency) / 6
}

// #endregion indicators

// #region integration
// sensorIntegration scores the homogeneity of the current readings via their
// coefficient of variation: high variance relative to magnitude lowers the
// score. Empty sensor maps score 0, single readings a fixed 0.3, and an
// exactly-zero mean scores 0.
func sensorIntegration(physical PhysicalState) float64 {
	if len(physical.Sensors) == 0 {
		return 0
	}
	keys := sortedKeys(physical.Sensors)
	if len(keys) < 2 {
		return 0.3
	}

	var sum float64
	for _, k := range keys {
		sum += physical.Sensors[k]
	}
	mean := sum / float64(len(keys))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, k := range keys {
		d := physical.Sensors[k] - mean
		variance += d * d
	}
	variance /= float64(len(keys))

	cv := math.Sqrt(variance) / math.Abs(mean)
	return max(0, min(1, 1-cv))
}

// #endregion integration

// #region self-monitoring
// selfMonitoring grows with the number of completed assessments, saturating
// at 10. It reads the count before the current result is appended.
func (t *Twin) selfMonitoring() float64 {
	return min(1, float64(len(t.twinHistory))/10)
}

// #endregion self-monitoring

// #region attention
// attentionFocus clamps health from above only; a negative health passes
// through unclamped.
func attentionFocus(physical PhysicalState) float64 {
	return min(1, physical.Health)
}

// #endregion attention

// #region consistency
// consistencyWindow bounds the score history scanned per assessment.
const consistencyWindow = 5

// consistencySensitivity is the fixed multiplier penalizing recent score
// variance.
const consistencySensitivity = 10

// behavioralConsistency penalizes volatility across the last few composite
// scores. Below 3 recorded assessments it returns a fixed 0.5.
func (t *Twin) behavioralConsistency() float64 {
	if len(t.twinHistory) < 3 {
		return 0.5
	}
	recent := t.twinHistory
	if len(recent) > consistencyWindow {
		recent = recent[len(recent)-consistencyWindow:]
	}

	var sum float64
	for _, s := range recent {
		sum += s.ConsciousnessScore
	}
	mean := sum / float64(len(recent))

	var variance float64
	for _, s := range recent {
		d := s.ConsciousnessScore - mean
		variance += d * d
	}
	variance /= float64(len(recent))

	return max(0, 1-variance*consistencySensitivity)
}

// #endregion consistency
