// Package game defines the simulated entities and the pure rules that act
// on them: asteroids, the player ship, projectiles, power-ups, scoring and
// the wave controller. Nothing in this package schedules or locks; that is
// the engine's job.
package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Kind discriminates entity variants. Collision resolution dispatches on
// the unordered pair of kinds, so the declaration order below is also the
// canonical pair order.
type Kind int

const (
	KindShip Kind = iota
	KindProjectile
	KindBeam
	KindAsteroid
	KindPowerUp
)

// String returns a short name for logging and telemetry.
func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindProjectile:
		return "projectile"
	case KindBeam:
		return "beam"
	case KindAsteroid:
		return "asteroid"
	case KindPowerUp:
		return "powerup"
	default:
		return "unknown"
	}
}

var (
	// ErrNonFinite is returned when an entity is created with NaN or
	// infinite coordinates. This indicates a programming defect, not a
	// playable state.
	ErrNonFinite = errors.New("game: non-finite coordinate")

	// ErrBadTier is returned for asteroid tiers outside 1..3.
	ErrBadTier = errors.New("game: asteroid tier out of range")
)

// Entity is the common representation of every simulated object. Variant
// data is carried in tagged fields selected by Kind rather than behind an
// interface, so the collision resolver can switch on kind pairs.
type Entity struct {
	ID     uuid.UUID
	Kind   Kind
	X, Y   float64
	VX, VY float64
	Angle  float64 // Facing/heading in radians
	Radius float64 // Collision radius; <= 0 never collides
	Alive  bool

	// Asteroid variant
	Tier Tier

	// Projectile and beam variant
	TTL      float64 // Seconds until expiry
	HitsLeft int     // Beams: asteroids this beam can still pierce

	// Power-up variant
	Power PowerKind
}

// NewEntity creates a live entity after validating its coordinates.
// Validation failures surface synchronously to the caller.
func NewEntity(kind Kind, x, y, radius float64) (*Entity, error) {
	if !finite(x) || !finite(y) {
		return nil, fmt.Errorf("%w: (%v, %v)", ErrNonFinite, x, y)
	}
	return &Entity{
		ID:     uuid.New(),
		Kind:   kind,
		X:      x,
		Y:      y,
		Radius: radius,
		Alive:  true,
	}, nil
}

// Collidable reports whether the entity participates in collision checks.
func (e *Entity) Collidable() bool {
	return e.Alive && e.Radius > 0
}

// Speed returns the magnitude of the entity's velocity.
func (e *Entity) Speed() float64 {
	return math.Hypot(e.VX, e.VY)
}

// Heading returns the direction of travel in radians. Entities at rest
// report their facing angle.
func (e *Entity) Heading() float64 {
	if e.VX == 0 && e.VY == 0 {
		return e.Angle
	}
	return math.Atan2(e.VY, e.VX)
}

// Integrate advances position by velocity over dt seconds.
func (e *Entity) Integrate(dt float64) {
	e.X += e.VX * dt
	e.Y += e.VY * dt
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
