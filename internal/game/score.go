package game

import "github.com/kvasir-games/rockfall/internal/config"

// Score rules are pure functions over primitive inputs so they can be
// exercised without any live entity state.

// TierBaseValue returns the configured point value of an asteroid tier.
// Smaller rocks are worth more, matching the difficulty of hitting them.
func TierBaseValue(cfg config.Game, tier Tier) int {
	switch tier {
	case TierSmall:
		return cfg.ScoreSmallAsteroid
	case TierMedium:
		return cfg.ScoreMediumAsteroid
	case TierLarge:
		return cfg.ScoreLargeAsteroid
	default:
		return 0
	}
}

// AsteroidScore computes the award for destroying an asteroid of the given
// tier during the given wave, under the wave's (already capped) score
// multiplier.
func AsteroidScore(cfg config.Game, tier Tier, wave int, waveMultiplier float64) int {
	base := TierBaseValue(cfg, tier)
	half := wave / 2
	if half < 1 {
		half = 1
	}
	return base*half + int((waveMultiplier-1)*float64(base))
}

// WaveCompletionScore computes the bonus for finishing a wave: a base
// amount scaled by wave number, a flat perfect-wave bonus when no damage
// was taken, and a flat speed bonus when the wave was cleared under the
// configured threshold.
func WaveCompletionScore(cfg config.Game, wave int, perfect bool, elapsedSecs float64) int {
	score := cfg.WaveBonusBase * wave
	if perfect {
		score += cfg.PerfectWaveBonus
	}
	if elapsedSecs < cfg.SpeedBonusSecs {
		score += cfg.SpeedBonus
	}
	return score
}
