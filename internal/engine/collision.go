package engine

import (
	"fmt"

	"github.com/kvasir-games/rockfall/internal/game"
	"github.com/kvasir-games/rockfall/internal/physics"
)

// collisionCellSize is the spatial grid cell size. Must be at least the
// largest possible interaction distance (two tier-3 asteroids).
const collisionCellSize = 10.0

// checkCollisions runs the broad phase over a point-in-time view of the
// active set and dispatches each overlapping pair to the resolver. Pairs
// where either entity has already been marked not-alive this tick are
// rejected early; entities with radius <= 0 never participate.
func (e *Engine) checkCollisions() {
	e.grid.Reset()
	for i, en := range e.entities {
		if en.Collidable() {
			e.grid.Insert(en.X, en.Y, i)
		}
	}

	for i, a := range e.entities {
		if !a.Collidable() {
			continue
		}
		e.grid.Nearby(a.X, a.Y, func(j int) bool {
			if j <= i {
				return false
			}
			b := e.entities[j]
			// Re-check liveness: resolution earlier in this scan may have
			// deactivated either side.
			if !a.Collidable() || !b.Collidable() {
				return false
			}
			if !physics.CirclesOverlap(a.X, a.Y, a.Radius, b.X, b.Y, b.Radius) {
				return false
			}
			e.resolvePair(a, b)
			return false
		})
	}
}

// resolvePair dispatches on the unordered pair of kinds. The operands are
// canonicalized by kind order so each rule is written once.
func (e *Engine) resolvePair(a, b *game.Entity) {
	if a.Kind > b.Kind {
		a, b = b, a
	}

	switch {
	case a.Kind == game.KindProjectile && b.Kind == game.KindAsteroid:
		a.Alive = false
		e.sink.Effect(Effect{Kind: FxImpactSpark, X: a.X, Y: a.Y, Intensity: 1})
		e.destroyAsteroid(b)

	case a.Kind == game.KindBeam && b.Kind == game.KindAsteroid:
		// Beams pierce: they spend one hit from their budget per asteroid
		// instead of deactivating on first contact.
		a.HitsLeft--
		if a.HitsLeft <= 0 {
			a.Alive = false
		}
		e.sink.Effect(Effect{Kind: FxImpactSpark, X: b.X, Y: b.Y, Intensity: 2})
		e.destroyAsteroid(b)

	case a.Kind == game.KindShip && b.Kind == game.KindAsteroid:
		e.resolveShipAsteroid(b)

	case a.Kind == game.KindShip && b.Kind == game.KindPowerUp:
		e.resolveShipPowerUp(b)
	}
}

// destroyAsteroid handles an asteroid "hit": score award, split spawning,
// wave bookkeeping, and outbound events. Children enter the spawn queue,
// never the live set mid-scan.
func (e *Engine) destroyAsteroid(a *game.Entity) {
	a.Alive = false

	wave := e.waves.Wave()
	points := game.AsteroidScore(e.cfg, a.Tier, wave.Number, wave.ScoreMultiplier)
	e.score += points

	e.sink.AsteroidDestroyed(a.Tier, wave.Number, points)
	e.sink.Effect(Effect{Kind: FxExplosion, X: a.X, Y: a.Y, Intensity: float64(a.Tier)})
	e.sink.Effect(Effect{Kind: FxDebris, X: a.X, Y: a.Y, Intensity: float64(a.Tier) * 2})
	e.sink.Audio(fmt.Sprintf("explosion_%d", a.Tier))

	children := a.Split(e.cfg, e.rng)
	for _, child := range children {
		e.pending = append(e.pending, child)
	}
	e.waves.RecordSplit(len(children))

	if e.waves.AsteroidDestroyed() {
		e.completeWave()
	}
}

// resolveShipAsteroid applies the ship-vs-asteroid rule: shield absorbs,
// invulnerability ignores, otherwise one life is lost and the ship warps
// back to spawn if any lives remain.
func (e *Engine) resolveShipAsteroid(a *game.Entity) {
	ship := e.ship

	if ship.Shielded {
		e.waves.RecordShieldBlock()
		e.sink.Effect(Effect{Kind: FxImpactSpark, X: ship.X, Y: ship.Y, Intensity: 1})
		e.sink.Audio("shield_block")
		return
	}
	if ship.Invulnerable > 0 {
		return
	}

	e.waves.RecordDamage()
	ship.Lives--
	e.sink.Effect(Effect{Kind: FxExplosion, X: ship.X, Y: ship.Y, Intensity: 3})
	e.sink.Audio("ship_hit")
	e.log.Debug("ship hit", "lives", ship.Lives, "asteroid_tier", a.Tier)

	if ship.Lives <= 0 {
		ship.Alive = false
		e.finishGame()
		return
	}

	e.sink.Effect(Effect{Kind: FxWarp, X: ship.X, Y: ship.Y, Intensity: 1})
	ship.Respawn(e.cfg)
	e.sink.Effect(Effect{Kind: FxWarp, X: ship.X, Y: ship.Y, Intensity: 1})
	e.sink.Audio("warp")
}

// resolveShipPowerUp collects a power-up onto the ship.
func (e *Engine) resolveShipPowerUp(p *game.Entity) {
	p.Alive = false
	e.ship.ApplyPowerUp(e.cfg, p.Power)
	e.waves.RecordPowerUpCollected()

	wave := e.waves.Wave()
	e.sink.PowerUpCollected(p.Power, wave.Number)
	e.sink.Audio("powerup")
}
