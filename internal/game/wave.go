package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/kvasir-games/rockfall/internal/config"
)

// WaveState is the controller's phase. There is no idle phase: finalizing
// a completing wave immediately re-enters InProgress for the next one.
type WaveState int

const (
	WaveInProgress WaveState = iota
	WaveCompleting
)

// Wave is the per-wave state the controller maintains.
type Wave struct {
	Number               int
	AsteroidsRemaining   int
	Boss                 bool
	DifficultyMultiplier float64 // Clamped to [BaseDifficulty, MaxDifficulty]
	ScoreMultiplier      float64 // Stepped by wave number, capped
	Perfect              bool    // True until the ship first takes damage
}

// Controller owns wave progression, the adaptive difficulty curve and the
// per-wave statistics. It is not safe for concurrent use; the engine
// serializes access under its world lock.
type Controller struct {
	cfg       config.Game
	state     WaveState
	wave      Wave
	stats     Stats
	waveStart time.Time

	recent  []float64 // Bounded queue of recent wave performances
	History []Stats   // Unbounded log of finalized waves

	now func() time.Time
}

// NewController creates a controller with wave 1 in progress.
func NewController(cfg config.Game) *Controller {
	c := &Controller{cfg: cfg, now: time.Now}
	c.startWave(1)
	return c
}

// Wave returns a copy of the current wave state.
func (c *Controller) Wave() Wave { return c.wave }

// State returns the controller phase.
func (c *Controller) State() WaveState { return c.state }

// Stats returns a copy of the in-progress wave's counters.
func (c *Controller) Stats() Stats { return c.stats }

// Elapsed returns how long the current wave has been running.
func (c *Controller) Elapsed() time.Duration { return c.now().Sub(c.waveStart) }

// RecordShotsFired adds fired projectiles to the wave counters.
func (c *Controller) RecordShotsFired(n int) { c.stats.ShotsFired += n }

// RecordDamage counts a hit on the ship and clears the perfect flag.
func (c *Controller) RecordDamage() {
	c.stats.HitsTaken++
	c.wave.Perfect = false
}

// RecordShieldBlock counts an absorbed hit. Blocked hits do not break a
// perfect wave.
func (c *Controller) RecordShieldBlock() { c.stats.ShieldBlocks++ }

// RecordPowerUpSpawned counts a power-up placed on the field.
func (c *Controller) RecordPowerUpSpawned() { c.stats.PowerUpsSpawned++ }

// RecordPowerUpCollected counts a collected power-up.
func (c *Controller) RecordPowerUpCollected() { c.stats.PowerUpsCollected++ }

// RecordSplit adds a destroyed asteroid's children to the remaining
// counter, so the counter tracks rocks left on the field rather than
// initial spawns. Call before AsteroidDestroyed for the parent.
func (c *Controller) RecordSplit(children int) {
	if c.state == WaveInProgress {
		c.wave.AsteroidsRemaining += children
	}
}

// MarkCleared forces the wave into Completing when the field has been
// observed empty. Safety valve for the wave manager; normally the counter
// reaches zero through AsteroidDestroyed.
func (c *Controller) MarkCleared() {
	if c.state == WaveInProgress {
		c.wave.AsteroidsRemaining = 0
		c.state = WaveCompleting
	}
}

// AsteroidDestroyed decrements the remaining-asteroid counter and reports
// whether that completed the wave. On completion the controller enters
// Completing; the caller finalizes via FinalizeWave.
func (c *Controller) AsteroidDestroyed() (completed bool) {
	c.stats.AsteroidsDestroyed++
	if c.state != WaveInProgress {
		return false
	}
	c.wave.AsteroidsRemaining--
	if c.wave.AsteroidsRemaining <= 0 {
		c.wave.AsteroidsRemaining = 0
		c.state = WaveCompleting
		return true
	}
	return false
}

// FinalizeWave finalizes the completing wave's stats, computes its
// completion bonus, pushes the stats into the history queues, and
// immediately starts the next wave. It returns the finalized stats and
// the bonus score.
func (c *Controller) FinalizeWave() (Stats, int) {
	elapsed := c.Elapsed()

	st := c.stats
	st.finalize(elapsed)

	bonus := WaveCompletionScore(c.cfg, c.wave.Number, c.wave.Perfect, elapsed.Seconds())

	c.History = append(c.History, st)
	c.recent = append(c.recent, st.Performance)
	if len(c.recent) > c.cfg.RecentWaveWindow {
		c.recent = c.recent[1:]
	}

	c.startWave(c.wave.Number + 1)
	return st, bonus
}

// Reset returns the controller to wave 1 with empty history.
func (c *Controller) Reset() {
	c.recent = nil
	c.History = nil
	c.startWave(1)
}

// AvgRecentPerformance is the mean wavePerformance over the bounded recent
// queue, defaulting to the neutral 0.5 when no waves have finished yet.
func (c *Controller) AvgRecentPerformance() float64 {
	if len(c.recent) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, p := range c.recent {
		sum += p
	}
	return sum / float64(len(c.recent))
}

// SpeedScale is the multiplier applied to asteroid spawn speed this wave.
func (c *Controller) SpeedScale() float64 {
	scale := c.wave.DifficultyMultiplier
	if c.wave.Boss {
		scale *= c.cfg.BossSpeedFactor
	}
	return scale
}

// SpawnTier picks the size tier for a newly spawned asteroid. Boss waves
// spawn uniformly large rocks; normal waves favor large over medium over
// small.
func (c *Controller) SpawnTier(rng *rand.Rand) Tier {
	if c.wave.Boss {
		return TierLarge
	}
	switch roll := rng.Intn(6); {
	case roll < 3:
		return TierLarge
	case roll < 5:
		return TierMedium
	default:
		return TierSmall
	}
}

// PowerUpChance is the probability of spawning a power-up on one wave
// manager check.
func (c *Controller) PowerUpChance() float64 {
	return PowerUpChanceFor(c.cfg, c.wave.Number, c.wave.Boss)
}

func (c *Controller) startWave(n int) {
	boss := BossWave(c.cfg, n)
	c.wave = Wave{
		Number:               n,
		AsteroidsRemaining:   AsteroidCountFor(c.cfg, n),
		Boss:                 boss,
		DifficultyMultiplier: DifficultyFor(c.cfg, n, c.AvgRecentPerformance()),
		ScoreMultiplier:      ScoreMultiplierFor(c.cfg, n),
		Perfect:              true,
	}
	c.stats = Stats{Wave: n, Boss: boss}
	c.waveStart = c.now()
	c.state = WaveInProgress
}

// BossWave reports whether wave n is a boss wave.
func BossWave(cfg config.Game, n int) bool {
	return cfg.BossInterval > 0 && n%cfg.BossInterval == 0
}

// AsteroidCountFor returns the number of asteroids wave n starts with.
// Boss waves use a separate, lower base/increment/cap.
func AsteroidCountFor(cfg config.Game, n int) int {
	if BossWave(cfg, n) {
		count := cfg.BossBaseAsteroids + cfg.BossIncrement*(n/cfg.BossInterval-1)
		return min(count, cfg.BossMaxAsteroids)
	}
	count := cfg.BaseAsteroids + cfg.AsteroidIncrement*(n-1)
	return min(count, cfg.MaxAsteroids)
}

// DifficultyFor computes the wave's difficulty multiplier: a logistic ramp
// from base toward max difficulty, scaled by a recent-performance modifier
// and clamped back into [base, max]. The logistic is normalized so wave 1
// sits exactly at the base difficulty.
func DifficultyFor(cfg config.Game, n int, avgRecentPerformance float64) float64 {
	sigma := 1 / (1 + math.Exp(-cfg.DifficultyCurveK*float64(n-1)))
	ramp := 2 * (sigma - 0.5) // 0 at wave 1, asymptotically 1

	difficulty := cfg.BaseDifficulty + (cfg.MaxDifficulty-cfg.BaseDifficulty)*ramp
	difficulty *= 1 + (avgRecentPerformance-0.5)*cfg.PerformanceScale

	if difficulty < cfg.BaseDifficulty {
		return cfg.BaseDifficulty
	}
	if difficulty > cfg.MaxDifficulty {
		return cfg.MaxDifficulty
	}
	return difficulty
}

// ScoreMultiplierFor is the stepped, capped score multiplier. It depends
// on wave number only; performance never changes point awards.
func ScoreMultiplierFor(cfg config.Game, n int) float64 {
	steps := (n - 1) / cfg.ScoreMultStepWaves
	mult := 1 + cfg.ScoreMultStep*float64(steps)
	if mult > cfg.ScoreMultCap {
		return cfg.ScoreMultCap
	}
	return mult
}

// PowerUpChanceFor is the per-check spawn probability: a capped linear ramp
// by wave number, overridden by a high fixed chance on boss waves.
func PowerUpChanceFor(cfg config.Game, n int, boss bool) float64 {
	if boss {
		return cfg.BossPowerUpChance
	}
	chance := cfg.PowerUpBaseChance + cfg.PowerUpChancePerWav*float64(n)
	if chance > cfg.PowerUpChanceCap {
		return cfg.PowerUpChanceCap
	}
	return chance
}
