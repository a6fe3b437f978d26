package game

import (
	"math"
	"math/rand"

	"github.com/kvasir-games/rockfall/internal/config"
)

// Tier is the discrete asteroid size class. Radius and split behavior are
// functions of tier alone.
type Tier int

const (
	TierSmall  Tier = 1
	TierMedium Tier = 2
	TierLarge  Tier = 3
)

// NewAsteroid creates an asteroid at (x, y) heading in direction angle at
// the given speed. Radius scales linearly with tier.
func NewAsteroid(cfg config.Game, x, y float64, tier Tier, angle, speed float64) (*Entity, error) {
	if tier < TierSmall || tier > TierLarge {
		return nil, ErrBadTier
	}
	e, err := NewEntity(KindAsteroid, x, y, float64(tier)*cfg.AsteroidUnitRadius)
	if err != nil {
		return nil, err
	}
	e.Tier = tier
	e.Angle = angle
	e.VX = math.Cos(angle) * speed
	e.VY = math.Sin(angle) * speed
	return e, nil
}

// NewAsteroidAtEdge creates an asteroid just outside a random playfield
// edge, aimed roughly at the center with up to ±45° of perturbation so it
// sweeps across the field. speedScale multiplies the tier's base speed
// (difficulty and boss scaling).
func NewAsteroidAtEdge(cfg config.Game, rng *rand.Rand, tier Tier, speedScale float64) (*Entity, error) {
	if tier < TierSmall || tier > TierLarge {
		return nil, ErrBadTier
	}
	w, h := cfg.WorldWidth, cfg.WorldHeight

	var x, y float64
	switch rng.Intn(4) {
	case 0: // top
		x, y = rng.Float64()*w, 1
	case 1: // bottom
		x, y = rng.Float64()*w, h-1
	case 2: // left
		x, y = 1, rng.Float64()*h
	default: // right
		x, y = w-1, rng.Float64()*h
	}

	angle := math.Atan2(h/2-y, w/2-x)
	angle += (rng.Float64() - 0.5) * math.Pi / 2 // ±45°

	speed := cfg.AsteroidTierSpeed[tier-1] * speedScale
	return NewAsteroid(cfg, x, y, tier, angle, speed)
}

// Split produces the two fragments of a destroyed asteroid. Tier 1
// asteroids leave nothing. Fragments are one tier smaller, spawn at the
// parent position, and diverge from the parent heading by 30°–60° to each
// side with speeds independently scaled to 0.8x–1.2x of the parent's.
func (e *Entity) Split(cfg config.Game, rng *rand.Rand) []*Entity {
	if e.Kind != KindAsteroid || e.Tier <= TierSmall {
		return nil
	}

	heading := e.Heading()
	speed := e.Speed()
	if speed == 0 {
		speed = cfg.AsteroidTierSpeed[e.Tier-2]
	}

	children := make([]*Entity, 0, 2)
	for _, side := range [2]float64{-1, 1} {
		diverge := (math.Pi/6 + rng.Float64()*math.Pi/6) * side // 30°–60°
		scale := 0.8 + rng.Float64()*0.4
		child, err := NewAsteroid(cfg, e.X, e.Y, e.Tier-1, heading+diverge, speed*scale)
		if err != nil {
			// Parent coordinates were already validated; unreachable.
			continue
		}
		children = append(children, child)
	}
	return children
}
