// Package config centralizes all tunable game parameters.
package config

import "time"

// Game holds every tunable parameter of the simulation. Tests and entry
// points start from Default and override what they need.
type Game struct {
	// World dimensions - the toroidal playfield.
	WorldWidth  float64
	WorldHeight float64

	// Tick scheduling
	TickRate          int           // Simulation ticks per second
	WaveCheckInterval time.Duration // Cadence of the wave manager task

	// Ship
	InitialLives         int
	InvulnerabilitySecs  float64 // Post-hit/respawn invulnerability window
	ShipRadius           float64
	ShipMaxSpeed         float64
	ShipRotationSpeed    float64 // Radians per second
	ShipThrust           float64 // Acceleration units per second²
	ShipDrag             float64 // Velocity retained per second when coasting
	FireCooldownSecs     float64 // Minimum seconds between shots
	RapidFireCooldownMul float64 // Cooldown multiplier while rapid-fire is active

	// Projectiles
	ProjectileSpeed    float64
	ProjectileLifetime float64 // Seconds before expiry
	ProjectileRadius   float64
	BeamSpeed          float64
	BeamLifetime       float64
	BeamRadius         float64
	BeamHits           int // Asteroids a single beam can pierce

	// Firing patterns
	SpreadCount   int     // Projectiles per spread volley
	SpreadAngle   float64 // Fan half-angle in radians
	MultiShotRows int     // Parallel projectiles per multi-shot volley

	// Asteroids
	AsteroidUnitRadius float64    // Collision radius = tier × unit
	AsteroidTierSpeed  [3]float64 // Base speed per tier (index = tier-1)

	// Scoring
	ScoreSmallAsteroid  int
	ScoreMediumAsteroid int
	ScoreLargeAsteroid  int
	WaveBonusBase       int     // Completion bonus = base × wave number
	PerfectWaveBonus    int     // Flat bonus for a zero-damage wave
	SpeedBonus          int     // Flat bonus for a fast clear
	SpeedBonusSecs      float64 // Clear time threshold for the speed bonus

	// Wave progression
	BaseAsteroids     int // Normal-wave count at wave 1
	AsteroidIncrement int // Extra asteroids per wave
	MaxAsteroids      int // Normal-wave count cap
	BossInterval      int // Every Nth wave is a boss wave
	BossBaseAsteroids int
	BossIncrement     int
	BossMaxAsteroids  int
	BossSpeedFactor   float64 // Extra speed multiplier on boss waves

	// Adaptive difficulty
	BaseDifficulty   float64
	MaxDifficulty    float64
	DifficultyCurveK float64 // Steepness of the logistic ramp
	PerformanceScale float64 // Weight of recent performance in the modifier
	RecentWaveWindow int     // Waves kept in the recent-performance queue

	// Score multiplier (stepped, wave number only)
	ScoreMultStep      float64 // Increase per step
	ScoreMultStepWaves int     // Waves per step
	ScoreMultCap       float64

	// Power-ups
	PowerUpBaseChance   float64 // Spawn probability per wave-manager check
	PowerUpChancePerWav float64 // Additional probability per wave number
	PowerUpChanceCap    float64
	BossPowerUpChance   float64 // Forced probability on boss waves
	RarityThresholdWave int     // Waves at/after this bias toward rare kinds
	PowerUpRadius       float64
	PowerUpDespawnSecs  float64
	ShieldDuration      float64
	RapidFireDuration   float64
	SpreadDuration      float64
	MultiShotDuration   float64
	BeamDuration        float64
	SpeedBoostDuration  float64
	SpeedBoostFactor    float64 // Multiplier on max speed, thrust and rotation
}

// Default returns the authoritative parameter set. The reference behavior
// drifted between revisions for the duration/rate constants; these values
// are the single consistent configuration this implementation commits to.
func Default() Game {
	return Game{
		WorldWidth:  400,
		WorldHeight: 300,

		TickRate:          60,
		WaveCheckInterval: 3 * time.Second,

		InitialLives:         3,
		InvulnerabilitySecs:  2.5,
		ShipRadius:           2.0,
		ShipMaxSpeed:         25.0,
		ShipRotationSpeed:    5.0,
		ShipThrust:           40.0,
		ShipDrag:             0.5,
		FireCooldownSecs:     0.18,
		RapidFireCooldownMul: 0.5,

		ProjectileSpeed:    55.0,
		ProjectileLifetime: 1.6,
		ProjectileRadius:   0.5,
		BeamSpeed:          70.0,
		BeamLifetime:       1.2,
		BeamRadius:         1.0,
		BeamHits:           3,

		SpreadCount:   3,
		SpreadAngle:   0.26,
		MultiShotRows: 2,

		AsteroidUnitRadius: 1.6,
		AsteroidTierSpeed:  [3]float64{15.0, 10.0, 6.0},

		ScoreSmallAsteroid:  100,
		ScoreMediumAsteroid: 50,
		ScoreLargeAsteroid:  20,
		WaveBonusBase:       50,
		PerfectWaveBonus:    250,
		SpeedBonus:          150,
		SpeedBonusSecs:      45.0,

		BaseAsteroids:     4,
		AsteroidIncrement: 2,
		MaxAsteroids:      16,
		BossInterval:      5,
		BossBaseAsteroids: 2,
		BossIncrement:     1,
		BossMaxAsteroids:  6,
		BossSpeedFactor:   1.4,

		BaseDifficulty:   1.0,
		MaxDifficulty:    3.0,
		DifficultyCurveK: 0.25,
		PerformanceScale: 0.4,
		RecentWaveWindow: 5,

		ScoreMultStep:      0.5,
		ScoreMultStepWaves: 3,
		ScoreMultCap:       3.0,

		PowerUpBaseChance:   0.10,
		PowerUpChancePerWav: 0.02,
		PowerUpChanceCap:    0.40,
		BossPowerUpChance:   0.85,
		RarityThresholdWave: 7,
		PowerUpRadius:       1.5,
		PowerUpDespawnSecs:  10.0,
		ShieldDuration:      6.0,
		RapidFireDuration:   8.0,
		SpreadDuration:      8.0,
		MultiShotDuration:   8.0,
		BeamDuration:        5.0,
		SpeedBoostDuration:  6.0,
		SpeedBoostFactor:    1.5,
	}
}

// TickInterval returns the frame budget for one simulation tick.
func (g Game) TickInterval() time.Duration {
	return time.Second / time.Duration(g.TickRate)
}
