package game

import (
	"testing"

	"github.com/kvasir-games/rockfall/internal/config"
)

func TestAsteroidScoreBaseCase(t *testing.T) {
	cfg := config.Default()

	// A small asteroid at wave 1 with multiplier 1 is worth exactly the
	// configured small base value.
	got := AsteroidScore(cfg, TierSmall, 1, 1.0)
	if got != cfg.ScoreSmallAsteroid {
		t.Errorf("small asteroid at wave 1 = %d, want %d", got, cfg.ScoreSmallAsteroid)
	}
}

func TestAsteroidScoreScaling(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name string
		tier Tier
		wave int
		mult float64
		want int
	}{
		{"large wave 1", TierLarge, 1, 1.0, cfg.ScoreLargeAsteroid},
		{"medium wave 1", TierMedium, 1, 1.0, cfg.ScoreMediumAsteroid},
		{"small wave 4 doubles", TierSmall, 4, 1.0, cfg.ScoreSmallAsteroid * 2},
		{"multiplier adds base fraction", TierSmall, 1, 1.5, cfg.ScoreSmallAsteroid + cfg.ScoreSmallAsteroid/2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AsteroidScore(cfg, tt.tier, tt.wave, tt.mult); got != tt.want {
				t.Errorf("AsteroidScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWaveCompletionScoreBonuses(t *testing.T) {
	cfg := config.Default()

	base := cfg.WaveBonusBase * 3

	// Slow, imperfect wave: base only.
	if got := WaveCompletionScore(cfg, 3, false, cfg.SpeedBonusSecs+10); got != base {
		t.Errorf("plain completion = %d, want %d", got, base)
	}

	// Perfect but slow: base + perfect bonus.
	if got := WaveCompletionScore(cfg, 3, true, cfg.SpeedBonusSecs+10); got != base+cfg.PerfectWaveBonus {
		t.Errorf("perfect completion = %d, want %d", got, base+cfg.PerfectWaveBonus)
	}

	// Perfect and fast: both bonuses at once.
	want := base + cfg.PerfectWaveBonus + cfg.SpeedBonus
	if got := WaveCompletionScore(cfg, 3, true, cfg.SpeedBonusSecs/2); got != want {
		t.Errorf("perfect fast completion = %d, want %d", got, want)
	}
}
