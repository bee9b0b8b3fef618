package twin

import (
	"math"
	"sort"

	"github.com/orion-dtc/conscious-twin/internal/proof"
)

// #region constants
const (
	// anomalyThreshold is a unit-less absolute delta applied to raw readings
	// regardless of sensor scale.
	anomalyThreshold = 0.5

	// neutralSyncAccuracy is returned when no prior prediction exists.
	neutralSyncAccuracy = 0.5

	// trendDamping scales the linear trend when extrapolating the next value.
	trendDamping = 0.5
)

// #endregion constants

// #region twin-struct
// Twin is a digital twin that scores how well its own predictions track the
// physical device. It owns four parallel append-only histories which grow by
// exactly one entry per Sync call and are never mutated or removed.
//
// A Twin is not safe for concurrent use; callers must serialize Sync calls
// per instance.
type Twin struct {
	twinID   string
	deviceID string

	physicalHistory []PhysicalState
	twinHistory     []TwinState
	predictions     []Prediction
	proofChain      []string
}

// New creates a twin for the given device with all histories empty.
func New(twinID, deviceID string) *Twin {
	return &Twin{twinID: twinID, deviceID: deviceID}
}

// #endregion twin-struct

// #region sync
// Sync ingests a physical snapshot, assesses the twin against it, and returns
// the assessment. It is total: malformed or empty sensor maps degrade to the
// per-indicator defaults rather than failing.
func (t *Twin) Sync(physical PhysicalState) TwinState {
	t.physicalHistory = append(t.physicalHistory, physical)

	syncAcc := t.syncAccuracy(physical)
	predAcc := t.predictionAccuracy()
	anomalies := t.detectAnomalies(physical)

	indicators := Indicators{
		SituationAwareness: syncAcc,
		SelfMonitoring:     t.selfMonitoring(),
		Integration:        sensorIntegration(physical),
		Prediction:         predAcc,
		Attention:          attentionFocus(physical),
		Consistency:        t.behavioralConsistency(),
	}
	score := indicators.Score()
	level := Classify(score)

	hash := proof.Hash(proof.Record{
		TwinID:    t.twinID,
		Timestamp: physical.Timestamp,
		Score:     round(score, 6),
		Level:     level,
		Anomalies: anomalies,
	})
	t.proofChain = append(t.proofChain, hash)

	t.predictions = append(t.predictions, t.makePrediction(physical))

	result := TwinState{
		TwinID:             t.twinID,
		SyncAccuracy:       round(syncAcc, 4),
		PredictionAccuracy: round(predAcc, 4),
		AnomaliesDetected:  anomalies,
		ConsciousnessLevel: level,
		ConsciousnessScore: round(score, 4),
		ProofHash:          hash,
	}
	t.twinHistory = append(t.twinHistory, result)

	return result
}

// #endregion sync

// #region sync-accuracy
// syncAccuracy compares the most recent stored prediction against the newly
// observed readings. Per-key error saturates at 1, so accuracy floors at 0.
func (t *Twin) syncAccuracy(physical PhysicalState) float64 {
	if len(t.predictions) == 0 {
		return neutralSyncAccuracy
	}
	last := t.predictions[len(t.predictions)-1]

	var sum float64
	matched := 0
	for _, key := range sortedKeys(last) {
		actual, ok := physical.Sensors[key]
		if !ok {
			continue
		}
		err := math.Abs(last[key] - actual)
		sum += 1 - min(1, err)
		matched++
	}
	return sum / float64(max(matched, 1))
}

// #endregion sync-accuracy

// #region prediction-accuracy
// predictionAccuracy is a confidence heuristic, not a true error measure:
// it grows linearly with accumulated history and saturates at 20 snapshots.
func (t *Twin) predictionAccuracy() float64 {
	if len(t.physicalHistory) < 3 {
		return 0.3
	}
	return min(1, float64(len(t.physicalHistory))/20)
}

// #endregion prediction-accuracy

// #region anomalies
// detectAnomalies counts sensor keys whose reading jumped by more than the
// threshold since the previous snapshot. Keys absent from either side are
// skipped.
func (t *Twin) detectAnomalies(physical PhysicalState) int {
	if len(t.physicalHistory) < 2 {
		return 0
	}
	prev := t.physicalHistory[len(t.physicalHistory)-2]

	anomalies := 0
	for key, val := range physical.Sensors {
		prevVal, ok := prev.Sensors[key]
		if !ok {
			continue
		}
		if math.Abs(val-prevVal) > anomalyThreshold {
			anomalies++
		}
	}
	return anomalies
}

// #endregion anomalies

// #region make-prediction
// makePrediction extrapolates each sensor half a step along its linear trend.
// On the very first snapshot (or for keys with no prior reading) the trend is
// zero and the current value is predicted unchanged.
func (t *Twin) makePrediction(physical PhysicalState) Prediction {
	pred := make(Prediction, len(physical.Sensors))
	for key, val := range physical.Sensors {
		if len(t.physicalHistory) >= 2 {
			prevVal, ok := t.physicalHistory[len(t.physicalHistory)-2].Sensors[key]
			if !ok {
				prevVal = val
			}
			pred[key] = val + (val-prevVal)*trendDamping
		} else {
			pred[key] = val
		}
	}
	return pred
}

// #endregion make-prediction

// #region inspection

// TwinID returns the twin identifier fixed at construction.
func (t *Twin) TwinID() string { return t.twinID }

// DeviceID returns the device identifier fixed at construction.
func (t *Twin) DeviceID() string { return t.deviceID }

// ChainLength returns the number of proof hashes recorded so far.
func (t *Twin) ChainLength() int { return len(t.proofChain) }

// LatestProof returns the most recent proof hash, or "" before the first Sync.
func (t *Twin) LatestProof() string {
	if len(t.proofChain) == 0 {
		return ""
	}
	return t.proofChain[len(t.proofChain)-1]
}

// TwinHistory returns a copy of all assessments in chronological order.
func (t *Twin) TwinHistory() []TwinState {
	out := make([]TwinState, len(t.twinHistory))
	copy(out, t.twinHistory)
	return out
}

// #endregion inspection

// #region helpers
// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// sortedKeys returns m's keys in lexicographic order. Float accumulation over
// map values must happen in a fixed order or identical inputs could round to
// different hashes across runs.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// #endregion helpers
