package twin

// #region physical-state
// PhysicalState is an immutable snapshot of the monitored device at a point
// in time. Sensor and actuator key sets may vary snapshot to snapshot; no key
// set is required. Health is expected in [0,1] but is not clamped at
// construction; the attention indicator clamps it from above.
type PhysicalState struct {
	DeviceID  string
	Sensors   map[string]float64
	Actuators map[string]float64
	Health    float64
	Timestamp string // ISO-8601-like, opaque to the engine
}

// #endregion physical-state

// #region twin-state
// TwinState is the immutable result of one Sync assessment.
type TwinState struct {
	TwinID             string
	SyncAccuracy       float64 // [0,1], rounded to 4 decimals
	PredictionAccuracy float64 // [0,1], rounded to 4 decimals
	AnomaliesDetected  int
	ConsciousnessLevel string
	ConsciousnessScore float64 // [0,1], rounded to 4 decimals
	ProofHash          string  // SHA-256 hex digest
}

// #endregion twin-state

// #region prediction
// Prediction maps sensor name to the value predicted for the next snapshot.
type Prediction map[string]float64

// #endregion prediction
