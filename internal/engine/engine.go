package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/kvasir-games/rockfall/internal/config"
	"github.com/kvasir-games/rockfall/internal/game"
	"github.com/kvasir-games/rockfall/internal/physics"
)

// Engine owns the active entity set and runs the simulation schedules:
// the fixed-cadence tick loop and the slower wave manager task. All
// structural mutation of the set happens under one mutex; external readers
// take snapshots instead of iterating live state.
type Engine struct {
	cfg  config.Game
	log  *log.Logger
	sink Sink

	mu        sync.Mutex
	rng       *rand.Rand
	ship      *game.Ship
	entities  []*game.Entity
	pending   []*game.Entity // Spawn queue, flushed between phases
	waves     *game.Controller
	score     int
	ended     bool
	startedAt time.Time
	tickCount uint64

	grid *physics.Grid
	snap atomic.Pointer[Snapshot]
}

// New creates an engine with wave 1 populated and a snapshot already
// published. A nil sink discards events; a nil logger uses the default.
func New(cfg config.Game, logger *log.Logger, sink Sink) (*Engine, error) {
	if logger == nil {
		logger = log.Default()
	}
	if sink == nil {
		sink = NopSink{}
	}

	e := &Engine{
		cfg:  cfg,
		log:  logger,
		sink: sink,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		grid: physics.NewGrid(cfg.WorldWidth, cfg.WorldHeight, collisionCellSize),
	}
	if err := e.reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// reset rebuilds the whole world: fresh ship, wave 1, zero score. Caller
// must hold the lock except during construction.
func (e *Engine) reset() error {
	ship, err := game.NewShip(e.cfg)
	if err != nil {
		return err
	}
	e.ship = ship
	e.entities = e.entities[:0]
	e.entities = append(e.entities, ship.Entity)
	e.pending = e.pending[:0]
	e.waves = game.NewController(e.cfg)
	e.score = 0
	e.ended = false
	e.startedAt = time.Now()
	e.spawnWaveAsteroids()
	e.flushPending()
	e.publishSnapshot(0)
	return nil
}

// Run executes the tick loop and the wave manager until the context is
// cancelled. Cancellation is a clean shutdown, not an error.
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.tickLoop(ctx) })
	g.Go(func() error { return e.waveLoop(ctx) })

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// tickLoop runs the fixed-cadence simulation tick, sleeping off the
// remainder of each frame budget. A panic inside one tick is logged and
// the loop continues; only cancellation stops it.
func (e *Engine) tickLoop(ctx context.Context) error {
	budget := e.cfg.TickInterval()
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			e.log.Debug("tick loop stopped")
			return ctx.Err()
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		e.safeTick(delta)

		if elapsed := time.Since(frameStart); elapsed < budget {
			time.Sleep(budget - elapsed)
		}
	}
}

// safeTick isolates per-tick faults so one bad tick cannot take the
// simulation down.
func (e *Engine) safeTick(delta time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("tick panicked", "panic", r)
		}
	}()
	e.tick(delta)
}

// tick advances the simulation one step: update, collision, removal,
// wrap, in that order, then publishes the snapshot.
func (e *Engine) tick(delta time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ended {
		dt := delta.Seconds()

		e.updateEntities(dt)
		e.flushPending()

		e.checkCollisions()
		e.flushPending()

		e.sweep()
		e.wrapPositions()
	}

	e.tickCount++
	e.publishSnapshot(delta)
}

// updateEntities advances every entity's own time step: the ship's full
// control/effect update, position integration and lifetime decrement for
// everything else.
func (e *Engine) updateEntities(dt float64) {
	if e.ship.Alive {
		e.ship.Update(dt)
		if e.ship.Controls.Accelerate {
			e.sink.Effect(Effect{Kind: FxThrust, X: e.ship.X, Y: e.ship.Y, Intensity: 1})
		}
	}

	for _, en := range e.entities {
		if !en.Alive {
			continue
		}
		switch en.Kind {
		case game.KindShip:
			// Updated above through the ship wrapper.
		case game.KindProjectile, game.KindBeam, game.KindPowerUp:
			en.TTL -= dt
			if en.TTL <= 0 {
				en.Alive = false
				continue
			}
			en.Integrate(dt)
		case game.KindAsteroid:
			en.Integrate(dt)
		}
	}
}

// flushPending moves queued spawns into the active set. Never called
// mid-scan.
func (e *Engine) flushPending() {
	e.entities = append(e.entities, e.pending...)
	e.pending = e.pending[:0]
}

// sweep physically removes entities marked not-alive. Removal happens only
// here, in a dedicated phase, never during collision scanning.
func (e *Engine) sweep() {
	kept := e.entities[:0]
	for _, en := range e.entities {
		if en.Alive {
			kept = append(kept, en)
		}
	}
	// Drop references past the end so removed entities can be collected.
	for i := len(kept); i < len(e.entities); i++ {
		e.entities[i] = nil
	}
	e.entities = kept
}

// wrapPositions wraps every entity across the toroidal playfield bounds.
func (e *Engine) wrapPositions() {
	for _, en := range e.entities {
		physics.WrapPosition(&en.X, &en.Y, e.cfg.WorldWidth, e.cfg.WorldHeight)
	}
}

// waveLoop is the secondary schedule: every interval it spawns power-ups
// and double-checks wave completion, independently of tick boundaries.
func (e *Engine) waveLoop(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.WaveCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Debug("wave manager stopped")
			return ctx.Err()
		case <-ticker.C:
			e.waveCheck()
		}
	}
}

// waveCheck inspects the world under the lock, so it always observes a
// view consistent with tick execution.
func (e *Engine) waveCheck() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ended {
		return
	}

	if e.waves.State() == game.WaveCompleting {
		e.completeWave()
		return
	}

	// Completion safety check: the inline counter normally triggers first,
	// but an empty field between ticks also completes the wave.
	live := 0
	for _, en := range e.entities {
		if en.Alive && en.Kind == game.KindAsteroid {
			live++
		}
	}
	if live == 0 {
		e.waves.MarkCleared()
		e.completeWave()
		return
	}

	if e.rng.Float64() < e.waves.PowerUpChance() {
		e.spawnPowerUp()
	}
}

// completeWave finalizes the completing wave, awards the bonus, notifies
// the sink, and spawns the next wave's asteroids.
func (e *Engine) completeWave() {
	stats, bonus := e.waves.FinalizeWave()
	e.score += bonus

	e.sink.WaveCompleted(stats, bonus)
	e.sink.Audio("wave_complete")
	e.log.Info("wave complete",
		"wave", stats.Wave,
		"bonus", bonus,
		"performance", stats.Performance,
		"next_difficulty", e.waves.Wave().DifficultyMultiplier)

	e.spawnWaveAsteroids()
}

// spawnWaveAsteroids queues the current wave's asteroids for spawning. Boss
// waves spawn uniformly tier-3 rocks at boss speed. Spawns go through the
// pending queue like split children: wave completion can trigger mid-scan.
func (e *Engine) spawnWaveAsteroids() {
	wave := e.waves.Wave()
	scale := e.waves.SpeedScale()
	for i := 0; i < wave.AsteroidsRemaining; i++ {
		tier := e.waves.SpawnTier(e.rng)
		a, err := game.NewAsteroidAtEdge(e.cfg, e.rng, tier, scale)
		if err != nil {
			e.log.Error("asteroid spawn failed", "err", err)
			continue
		}
		e.pending = append(e.pending, a)
	}
}

// spawnPowerUp places a random power-up at a random field position.
func (e *Engine) spawnPowerUp() {
	wave := e.waves.Wave()
	kind := game.PickPowerKind(e.cfg, e.rng, wave.Number)
	p, err := game.NewPowerUp(e.cfg, e.rng, kind,
		e.rng.Float64()*e.cfg.WorldWidth, e.rng.Float64()*e.cfg.WorldHeight)
	if err != nil {
		e.log.Error("powerup spawn failed", "err", err)
		return
	}
	e.entities = append(e.entities, p)
	e.waves.RecordPowerUpSpawned()
	e.log.Debug("powerup spawned", "kind", kind, "wave", wave.Number)
}

// finishGame performs the one-way transition into game over. Its side
// effects fire exactly once per game; Restart rearms them.
func (e *Engine) finishGame() {
	if e.ended {
		return
	}
	e.ended = true

	summary := Summary{
		Score:          e.score,
		WavesCompleted: len(e.waves.History),
		FinalWave:      e.waves.Wave().Number,
		Duration:       time.Since(e.startedAt),
	}
	e.sink.GameEnded(summary)
	e.sink.Audio("game_over")
	e.log.Info("game over", "score", summary.Score, "wave", summary.FinalWave)
}

// Snapshot returns the most recently published immutable snapshot.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// SetTurnLeft sets the ship's turn-left control flag.
func (e *Engine) SetTurnLeft(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ship.Controls.TurnLeft = on
}

// SetTurnRight sets the ship's turn-right control flag.
func (e *Engine) SetTurnRight(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ship.Controls.TurnRight = on
}

// SetAccelerate sets the ship's thrust control flag.
func (e *Engine) SetAccelerate(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ship.Controls.Accelerate = on
}

// Fire requests a shot. It returns copies of the newly created
// projectiles, or nil while the cooldown runs or the game is over. Active
// firing-pattern effects decide the volley shape.
func (e *Engine) Fire() []game.Entity {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ended || !e.ship.Alive {
		return nil
	}

	volley := e.ship.FireVolley(e.cfg)
	if len(volley) == 0 {
		return nil
	}

	out := make([]game.Entity, 0, len(volley))
	for _, p := range volley {
		e.entities = append(e.entities, p)
		out = append(out, *p)
	}
	e.waves.RecordShotsFired(len(volley))
	e.sink.Audio("fire")
	return out
}

// Restart atomically resets wave, score and entity state together. Calling
// it on a fresh engine is a no-op in effect: the result is always the
// identical wave-1, zero-score, single-ship state.
func (e *Engine) Restart() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log.Info("restart requested")
	return e.reset()
}

// Score returns the current score.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// GameOver reports whether the terminal game-over state has been entered.
func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ended
}
