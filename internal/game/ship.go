package game

import (
	"math"

	"github.com/kvasir-games/rockfall/internal/config"
)

// Controls are the input flags the input collaborator sets on the ship.
type Controls struct {
	TurnLeft   bool
	TurnRight  bool
	Accelerate bool
}

// Ship is the player vessel. It shares the common Entity representation
// (its Entity lives in the active set like any other) and adds lives,
// timers, movement constants, and the active status-effect records.
type Ship struct {
	*Entity

	Lives        int
	Invulnerable float64 // Seconds of post-hit/respawn immunity remaining
	Shielded     bool    // Damage-immune while a shield effect is active
	Controls     Controls

	// Current movement constants. Status effects may override these; the
	// baseline fields hold the values reverts restore.
	MaxSpeed      float64
	RotationSpeed float64
	Thrust        float64
	Drag          float64

	baseMaxSpeed      float64
	baseRotationSpeed float64
	baseThrust        float64

	fireCooldown float64
	effects      []*Effect
}

// NewShip creates a ship at the playfield center, pointing up, with full
// lives and fresh spawn invulnerability.
func NewShip(cfg config.Game) (*Ship, error) {
	e, err := NewEntity(KindShip, cfg.WorldWidth/2, cfg.WorldHeight/2, cfg.ShipRadius)
	if err != nil {
		return nil, err
	}
	e.Angle = -math.Pi / 2

	return &Ship{
		Entity:            e,
		Lives:             cfg.InitialLives,
		Invulnerable:      cfg.InvulnerabilitySecs,
		MaxSpeed:          cfg.ShipMaxSpeed,
		RotationSpeed:     cfg.ShipRotationSpeed,
		Thrust:            cfg.ShipThrust,
		Drag:              cfg.ShipDrag,
		baseMaxSpeed:      cfg.ShipMaxSpeed,
		baseRotationSpeed: cfg.ShipRotationSpeed,
		baseThrust:        cfg.ShipThrust,
	}, nil
}

// Update advances the ship one time step: rotation, thrust, drag, speed
// clamp, position integration and timer decrements. Status-effect expiry
// runs here as well, so reverts happen on the same tick cadence.
func (s *Ship) Update(dt float64) {
	if s.Controls.TurnLeft {
		s.Angle -= s.RotationSpeed * dt
	}
	if s.Controls.TurnRight {
		s.Angle += s.RotationSpeed * dt
	}
	for s.Angle > math.Pi {
		s.Angle -= 2 * math.Pi
	}
	for s.Angle < -math.Pi {
		s.Angle += 2 * math.Pi
	}

	if s.Controls.Accelerate {
		s.VX += math.Cos(s.Angle) * s.Thrust * dt
		s.VY += math.Sin(s.Angle) * s.Thrust * dt
	} else {
		drag := math.Pow(s.Drag, dt)
		s.VX *= drag
		s.VY *= drag
	}

	if speed := s.Speed(); speed > s.MaxSpeed {
		scale := s.MaxSpeed / speed
		s.VX *= scale
		s.VY *= scale
	}

	s.Integrate(dt)

	if s.Invulnerable > 0 {
		s.Invulnerable -= dt
		if s.Invulnerable < 0 {
			s.Invulnerable = 0
		}
	}
	if s.fireCooldown > 0 {
		s.fireCooldown -= dt
	}

	s.tickEffects(dt)
}

// Respawn relocates the ship to the spawn point with zero velocity and a
// fresh invulnerability window. Lives are not touched here.
func (s *Ship) Respawn(cfg config.Game) {
	s.X = cfg.WorldWidth / 2
	s.Y = cfg.WorldHeight / 2
	s.VX, s.VY = 0, 0
	s.Angle = -math.Pi / 2
	s.Invulnerable = cfg.InvulnerabilitySecs
}

// ApplyPowerUp applies or stacks a status effect of the given kind. A kind
// already active gains the full duration again; a new kind records its
// revert action and applies any stat override.
func (s *Ship) ApplyPowerUp(cfg config.Game, kind PowerKind) {
	duration := kind.Duration(cfg)
	for _, ef := range s.effects {
		if ef.Kind == kind {
			ef.Remaining += duration
			return
		}
	}

	ef := &Effect{Kind: kind, Remaining: duration}
	switch kind {
	case PowerShield:
		s.Shielded = true
		ef.revert = func() { s.Shielded = false }
	case PowerSpeedBoost:
		s.MaxSpeed = s.baseMaxSpeed * cfg.SpeedBoostFactor
		s.Thrust = s.baseThrust * cfg.SpeedBoostFactor
		s.RotationSpeed = s.baseRotationSpeed * cfg.SpeedBoostFactor
		ef.revert = func() {
			s.MaxSpeed = s.baseMaxSpeed
			s.Thrust = s.baseThrust
			s.RotationSpeed = s.baseRotationSpeed
		}
	default:
		// Firing-pattern kinds are consulted at fire time; nothing to
		// mutate now or revert later.
	}
	s.effects = append(s.effects, ef)
}

// HasEffect reports whether an effect of the given kind is active.
func (s *Ship) HasEffect(kind PowerKind) bool {
	for _, ef := range s.effects {
		if ef.Kind == kind {
			return true
		}
	}
	return false
}

// ActiveEffects returns a copy of the active effect kinds and their
// remaining durations, for snapshots and HUDs.
func (s *Ship) ActiveEffects() map[PowerKind]float64 {
	if len(s.effects) == 0 {
		return nil
	}
	out := make(map[PowerKind]float64, len(s.effects))
	for _, ef := range s.effects {
		out[ef.Kind] = ef.Remaining
	}
	return out
}

// tickEffects decrements effect durations and expires those at or below
// zero, running each revert exactly once.
func (s *Ship) tickEffects(dt float64) {
	kept := s.effects[:0]
	for _, ef := range s.effects {
		ef.Remaining -= dt
		if ef.Remaining <= 0 {
			if ef.revert != nil {
				ef.revert()
				ef.revert = nil
			}
			continue
		}
		kept = append(kept, ef)
	}
	s.effects = kept
}
