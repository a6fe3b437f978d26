package engine

import (
	"time"

	"github.com/kvasir-games/rockfall/internal/game"
)

// ShipStatus is the ship-specific slice of a snapshot. The ship's position
// and velocity appear among the snapshot entities like everything else.
type ShipStatus struct {
	Alive        bool
	Lives        int
	Invulnerable float64
	Shielded     bool
	Effects      map[game.PowerKind]float64
}

// Snapshot is an immutable copy of the simulation state, published once
// per tick. External consumers (renderers, spectator feeds) read snapshots
// instead of the live entity set.
type Snapshot struct {
	Tick     uint64
	Entities []game.Entity // Value copies; mutating them affects nothing
	Ship     ShipStatus
	Wave     game.Wave
	Score    int
	GameOver bool
	Width    float64
	Height   float64
	Delta    time.Duration
}

// publishSnapshot stores a fresh snapshot for readers. Every publication
// owns its entity slice: a reader can hold a loaded snapshot across any
// number of ticks without it being rewritten underneath.
func (e *Engine) publishSnapshot(delta time.Duration) {
	buf := make([]game.Entity, 0, len(e.entities))
	for _, en := range e.entities {
		buf = append(buf, *en)
	}

	snap := &Snapshot{
		Tick:     e.tickCount,
		Entities: buf,
		Wave:     e.waves.Wave(),
		Score:    e.score,
		GameOver: e.ended,
		Width:    e.cfg.WorldWidth,
		Height:   e.cfg.WorldHeight,
		Delta:    delta,
	}
	if e.ship != nil {
		snap.Ship = ShipStatus{
			Alive:        e.ship.Alive,
			Lives:        e.ship.Lives,
			Invulnerable: e.ship.Invulnerable,
			Shielded:     e.ship.Shielded,
			Effects:      e.ship.ActiveEffects(),
		}
	}
	e.snap.Store(snap)
}
