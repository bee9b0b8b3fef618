package twin

// #region levels
// Consciousness levels, most demanding first.
const (
	LevelTranscendent = "C-4 Transcendent"
	LevelAutonomous   = "C-3 Autonomous"
	LevelEmerging     = "C-2 Emerging"
	LevelFunctional   = "C-1 Functional"
	LevelReactive     = "C-0 Reactive"
)

// #endregion levels

// #region classify
// Classify maps a composite score to its consciousness level. Thresholds are
// inclusive on the lower bound of each tier.
func Classify(score float64) string {
	switch {
	case score >= 0.85:
		return LevelTranscendent
	case score >= 0.70:
		return LevelAutonomous
	case score >= 0.50:
		return LevelEmerging
	case score >= 0.20:
		return LevelFunctional
	default:
		return LevelReactive
	}
}

// #endregion classify
