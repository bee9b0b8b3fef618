package store

import "time"

// #region snapshot-record
// SnapshotRecord is a persisted physical snapshot, one row per Sync call.
type SnapshotRecord struct {
	TwinID    string
	DeviceID  string
	Sensors   map[string]float64
	Actuators map[string]float64
	Health    float64
	Timestamp string // device-reported, opaque
	CreatedAt time.Time
}

// #endregion snapshot-record

// #region assessment-record
// AssessmentRecord is a persisted twin assessment. Seq is the 1-based chain
// position; (TwinID, Seq) is unique. SnapshotTimestamp echoes the snapshot's
// device timestamp so an assessment can be read against its input without a
// join.
type AssessmentRecord struct {
	AssessmentID       string
	TwinID             string
	Seq                int
	SyncAccuracy       float64
	PredictionAccuracy float64
	Anomalies          int
	Level              string
	Score              float64
	ProofHash          string
	SnapshotTimestamp  string
	CreatedAt          time.Time
}

// #endregion assessment-record
