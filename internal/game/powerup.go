package game

import (
	"math/rand"

	"github.com/kvasir-games/rockfall/internal/config"
)

// PowerKind identifies a collectible power-up and the status effect it
// applies to the ship.
type PowerKind int

const (
	PowerShield PowerKind = iota
	PowerRapidFire
	PowerSpeedBoost
	PowerSpread
	PowerMultiShot
	PowerBeam
	numPowerKinds
)

// String returns the telemetry/audio-cue name of the power-up kind.
func (p PowerKind) String() string {
	switch p {
	case PowerShield:
		return "shield"
	case PowerRapidFire:
		return "rapid_fire"
	case PowerSpeedBoost:
		return "speed_boost"
	case PowerSpread:
		return "spread"
	case PowerMultiShot:
		return "multi_shot"
	case PowerBeam:
		return "beam"
	default:
		return "unknown"
	}
}

// Rare reports whether the kind belongs to the rare pool that late waves
// bias toward.
func (p PowerKind) Rare() bool {
	switch p {
	case PowerSpread, PowerMultiShot, PowerBeam:
		return true
	default:
		return false
	}
}

// Duration returns the configured lifetime of the kind's status effect.
func (p PowerKind) Duration(cfg config.Game) float64 {
	switch p {
	case PowerShield:
		return cfg.ShieldDuration
	case PowerRapidFire:
		return cfg.RapidFireDuration
	case PowerSpeedBoost:
		return cfg.SpeedBoostDuration
	case PowerSpread:
		return cfg.SpreadDuration
	case PowerMultiShot:
		return cfg.MultiShotDuration
	case PowerBeam:
		return cfg.BeamDuration
	default:
		return 0
	}
}

// Effect is one active status effect on the ship: a kind, its remaining
// duration, and the action that undoes whatever the effect changed. The
// revert runs exactly once, on expiry.
type Effect struct {
	Kind      PowerKind
	Remaining float64
	revert    func()
}

// NewPowerUp creates a drifting collectible of the given kind. It expires
// on its own if never collected.
func NewPowerUp(cfg config.Game, rng *rand.Rand, kind PowerKind, x, y float64) (*Entity, error) {
	e, err := NewEntity(KindPowerUp, x, y, cfg.PowerUpRadius)
	if err != nil {
		return nil, err
	}
	e.Power = kind
	e.TTL = cfg.PowerUpDespawnSecs
	// Slow random drift so pickups are not perfectly stationary targets.
	e.VX = (rng.Float64() - 0.5) * 4
	e.VY = (rng.Float64() - 0.5) * 4
	return e, nil
}

// PickPowerKind selects a random power-up kind. Waves at or beyond the
// rarity threshold double the weight of the rare pool.
func PickPowerKind(cfg config.Game, rng *rand.Rand, wave int) PowerKind {
	weights := make([]int, numPowerKinds)
	total := 0
	for k := PowerKind(0); k < numPowerKinds; k++ {
		w := 2
		if k.Rare() {
			if wave >= cfg.RarityThresholdWave {
				w = 4
			} else {
				w = 1
			}
		}
		weights[k] = w
		total += w
	}

	roll := rng.Intn(total)
	for k, w := range weights {
		if roll < w {
			return PowerKind(k)
		}
		roll -= w
	}
	return PowerShield
}
