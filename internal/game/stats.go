package game

import "time"

// Stats accumulates per-wave counters while a wave is in progress and
// carries the derived performance metrics once finalized. Finalized stats
// are retained in the controller's bounded recent queue and its unbounded
// history.
type Stats struct {
	Wave int
	Boss bool

	HitsTaken          int
	ShotsFired         int
	AsteroidsDestroyed int
	PowerUpsSpawned    int
	PowerUpsCollected  int
	ShieldBlocks       int

	Duration time.Duration

	// Derived at finalization
	Accuracy          float64
	SurvivalScore     float64
	PowerUpEfficiency float64
	Performance       float64
}

// finalize computes the derived metrics. Performance is a weighted blend
// of accuracy, survival and power-up efficiency in [0, 1]; boss waves are
// weighted 1.5x before clamping.
func (st *Stats) finalize(duration time.Duration) {
	st.Duration = duration

	if st.ShotsFired > 0 {
		st.Accuracy = clamp01(float64(st.AsteroidsDestroyed) / float64(st.ShotsFired))
	}

	st.SurvivalScore = clamp01(1 - 0.25*float64(st.HitsTaken))

	if st.PowerUpsSpawned > 0 {
		st.PowerUpEfficiency = clamp01(float64(st.PowerUpsCollected) / float64(st.PowerUpsSpawned))
	} else {
		st.PowerUpEfficiency = 1
	}

	perf := 0.4*st.Accuracy + 0.4*st.SurvivalScore + 0.2*st.PowerUpEfficiency
	if st.Boss {
		perf *= 1.5
	}
	st.Performance = clamp01(perf)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
