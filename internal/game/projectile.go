package game

import (
	"math"

	"github.com/kvasir-games/rockfall/internal/config"
)

// NewProjectile creates a bullet at (x, y) traveling in direction angle.
// The projectile inherits the shooter's velocity on top of its own speed.
func NewProjectile(cfg config.Game, x, y, angle, shooterVX, shooterVY float64) (*Entity, error) {
	e, err := NewEntity(KindProjectile, x, y, cfg.ProjectileRadius)
	if err != nil {
		return nil, err
	}
	e.Angle = angle
	e.VX = shooterVX + math.Cos(angle)*cfg.ProjectileSpeed
	e.VY = shooterVY + math.Sin(angle)*cfg.ProjectileSpeed
	e.TTL = cfg.ProjectileLifetime
	return e, nil
}

// NewBeam creates a piercing beam shot. Beams survive asteroid impacts
// until their hit budget is spent.
func NewBeam(cfg config.Game, x, y, angle, shooterVX, shooterVY float64) (*Entity, error) {
	e, err := NewEntity(KindBeam, x, y, cfg.BeamRadius)
	if err != nil {
		return nil, err
	}
	e.Angle = angle
	e.VX = shooterVX + math.Cos(angle)*cfg.BeamSpeed
	e.VY = shooterVY + math.Sin(angle)*cfg.BeamSpeed
	e.TTL = cfg.BeamLifetime
	e.HitsLeft = cfg.BeamHits
	return e, nil
}

// FireVolley produces the entities for one trigger pull, or nil while the
// cooldown is still running. When several firing-pattern effects are active
// at once the precedence is fixed: beam, then spread, then multi-shot, then
// the single shot. Rapid-fire is orthogonal and only shortens the cooldown.
func (s *Ship) FireVolley(cfg config.Game) []*Entity {
	if s.fireCooldown > 0 {
		return nil
	}

	cooldown := cfg.FireCooldownSecs
	if s.HasEffect(PowerRapidFire) {
		cooldown *= cfg.RapidFireCooldownMul
	}
	s.fireCooldown = cooldown

	noseX := s.X + math.Cos(s.Angle)*s.Radius
	noseY := s.Y + math.Sin(s.Angle)*s.Radius

	switch {
	case s.HasEffect(PowerBeam):
		beam, err := NewBeam(cfg, noseX, noseY, s.Angle, s.VX, s.VY)
		if err != nil {
			return nil
		}
		return []*Entity{beam}

	case s.HasEffect(PowerSpread):
		out := make([]*Entity, 0, cfg.SpreadCount)
		step := 2 * cfg.SpreadAngle / float64(cfg.SpreadCount-1)
		for i := 0; i < cfg.SpreadCount; i++ {
			angle := s.Angle - cfg.SpreadAngle + step*float64(i)
			p, err := NewProjectile(cfg, noseX, noseY, angle, s.VX, s.VY)
			if err != nil {
				continue
			}
			out = append(out, p)
		}
		return out

	case s.HasEffect(PowerMultiShot):
		// Parallel shots offset sideways from the nose.
		out := make([]*Entity, 0, cfg.MultiShotRows)
		perp := s.Angle + math.Pi/2
		offset := -float64(cfg.MultiShotRows-1) / 2
		for i := 0; i < cfg.MultiShotRows; i++ {
			d := (offset + float64(i)) * s.Radius
			p, err := NewProjectile(cfg,
				noseX+math.Cos(perp)*d, noseY+math.Sin(perp)*d,
				s.Angle, s.VX, s.VY)
			if err != nil {
				continue
			}
			out = append(out, p)
		}
		return out

	default:
		p, err := NewProjectile(cfg, noseX, noseY, s.Angle, s.VX, s.VY)
		if err != nil {
			return nil
		}
		return []*Entity{p}
	}
}
