package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kvasir-games/rockfall/internal/config"
	"github.com/kvasir-games/rockfall/internal/game"
)

// recordSink captures outbound events for assertions.
type recordSink struct {
	NopSink
	destroyed     int
	waveCompleted []game.Stats
	bonuses       []int
	collected     []game.PowerKind
	ended         []Summary
	audio         []string
}

func (r *recordSink) AsteroidDestroyed(game.Tier, int, int) { r.destroyed++ }
func (r *recordSink) WaveCompleted(st game.Stats, bonus int) {
	r.waveCompleted = append(r.waveCompleted, st)
	r.bonuses = append(r.bonuses, bonus)
}
func (r *recordSink) PowerUpCollected(kind game.PowerKind, _ int) {
	r.collected = append(r.collected, kind)
}
func (r *recordSink) GameEnded(s Summary) { r.ended = append(r.ended, s) }
func (r *recordSink) Audio(cue string)    { r.audio = append(r.audio, cue) }

func newTestEngine(t *testing.T, cfg config.Game, sink Sink) *Engine {
	t.Helper()
	e, err := New(cfg, log.New(io.Discard), sink)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// stripNonShip reduces the world to just the ship, for tests that inject
// their own entities.
func stripNonShip(e *Engine) {
	e.entities = e.entities[:0]
	e.entities = append(e.entities, e.ship.Entity)
}

func mustAsteroid(t *testing.T, cfg config.Game, x, y float64, tier game.Tier) *game.Entity {
	t.Helper()
	a, err := game.NewAsteroid(cfg, x, y, tier, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestRestartIdempotent(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)

	// Dirty the state: destroy a rock for score, take a wave of damage.
	stripNonShip(e)
	a := mustAsteroid(t, cfg, 50, 50, game.TierSmall)
	e.entities = append(e.entities, a)
	e.destroyAsteroid(a)
	if e.score == 0 {
		t.Fatal("expected score after destroying an asteroid")
	}

	for i := 0; i < 2; i++ {
		if err := e.Restart(); err != nil {
			t.Fatal(err)
		}

		snap := e.Snapshot()
		if snap.Wave.Number != 1 {
			t.Errorf("restart %d: wave = %d, want 1", i, snap.Wave.Number)
		}
		if snap.Score != 0 {
			t.Errorf("restart %d: score = %d, want 0", i, snap.Score)
		}
		if snap.GameOver {
			t.Errorf("restart %d: game over flag still set", i)
		}
		if snap.Ship.Lives != cfg.InitialLives {
			t.Errorf("restart %d: lives = %d, want %d", i, snap.Ship.Lives, cfg.InitialLives)
		}

		ships := 0
		for _, en := range snap.Entities {
			if en.Kind == game.KindShip {
				ships++
			}
		}
		if ships != 1 {
			t.Errorf("restart %d: ship entities = %d, want exactly 1", i, ships)
		}
	}
}

func TestZeroRadiusNeverCollides(t *testing.T) {
	cfg := config.Default()
	sink := &recordSink{}
	e := newTestEngine(t, cfg, sink)
	stripNonShip(e)

	a := mustAsteroid(t, cfg, 200, 200, game.TierMedium)
	p, err := game.NewProjectile(cfg, 200, 200, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	p.Radius = 0 // degenerate: must be excluded from collision entirely
	e.ship.X, e.ship.Y = 10, 10
	e.entities = append(e.entities, a, p)

	e.checkCollisions()

	if !a.Alive || !p.Alive {
		t.Error("zero-radius projectile must never be reported colliding")
	}
	if sink.destroyed != 0 {
		t.Errorf("destroyed events = %d, want 0", sink.destroyed)
	}
}

func TestExactTouchCollides(t *testing.T) {
	cfg := config.Default()
	sink := &recordSink{}
	e := newTestEngine(t, cfg, sink)
	stripNonShip(e)
	e.ship.X, e.ship.Y = 10, 10

	a := mustAsteroid(t, cfg, 200, 200, game.TierSmall)
	a.Radius = 2
	p, err := game.NewProjectile(cfg, 203, 200, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	p.Radius = 1 // center distance 3 == radius sum, exactly on the boundary
	e.entities = append(e.entities, a, p)

	e.checkCollisions()

	if a.Alive {
		t.Error("center distance exactly equal to radius sum must collide")
	}
	if p.Alive {
		t.Error("projectile should deactivate on impact")
	}
	if sink.destroyed != 1 {
		t.Errorf("destroyed events = %d, want 1", sink.destroyed)
	}
}

func TestShieldedShipAbsorbsHit(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)
	stripNonShip(e)

	e.ship.ApplyPowerUp(cfg, game.PowerShield)
	livesBefore := e.ship.Lives

	a := mustAsteroid(t, cfg, e.ship.X, e.ship.Y, game.TierLarge)
	e.entities = append(e.entities, a)

	e.checkCollisions()

	if e.ship.Lives != livesBefore {
		t.Errorf("lives = %d, want unchanged %d", e.ship.Lives, livesBefore)
	}
	if got := e.waves.Stats().ShieldBlocks; got != 1 {
		t.Errorf("shield blocks = %d, want 1", got)
	}
	if !a.Alive {
		t.Error("shield-absorbed asteroid must remain undestroyed")
	}
	if !e.waves.Wave().Perfect {
		t.Error("blocked hit must not break a perfect wave")
	}
}

func TestShipHitLosesLifeAndWarps(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)
	stripNonShip(e)

	e.ship.Invulnerable = 0
	e.ship.X, e.ship.Y = 30, 30
	e.ship.VX, e.ship.VY = 8, -3
	livesBefore := e.ship.Lives

	a := mustAsteroid(t, cfg, 30, 30, game.TierMedium)
	e.entities = append(e.entities, a)

	e.checkCollisions()

	if e.ship.Lives != livesBefore-1 {
		t.Errorf("lives = %d, want %d", e.ship.Lives, livesBefore-1)
	}
	if e.ship.X != cfg.WorldWidth/2 || e.ship.Y != cfg.WorldHeight/2 {
		t.Error("ship should relocate to the spawn point")
	}
	if e.ship.VX != 0 || e.ship.VY != 0 {
		t.Error("ship velocity should zero on respawn")
	}
	if e.ship.Invulnerable <= 0 {
		t.Error("respawn should arm the invulnerability timer")
	}
	if e.waves.Wave().Perfect {
		t.Error("taking damage must clear the perfect-wave flag")
	}
}

func TestInvulnerableShipIgnoresHit(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)
	stripNonShip(e)

	e.ship.Invulnerable = 1.0
	livesBefore := e.ship.Lives

	a := mustAsteroid(t, cfg, e.ship.X, e.ship.Y, game.TierSmall)
	e.entities = append(e.entities, a)

	e.checkCollisions()

	if e.ship.Lives != livesBefore {
		t.Errorf("lives = %d, want unchanged", e.ship.Lives)
	}
}

func TestGameOverFiresExactlyOnce(t *testing.T) {
	cfg := config.Default()
	sink := &recordSink{}
	e := newTestEngine(t, cfg, sink)
	stripNonShip(e)

	e.ship.Lives = 1
	e.ship.Invulnerable = 0
	a := mustAsteroid(t, cfg, e.ship.X, e.ship.Y, game.TierLarge)
	e.entities = append(e.entities, a)

	e.checkCollisions()

	if !e.ended {
		t.Fatal("losing the last life should end the game")
	}
	if len(sink.ended) != 1 {
		t.Fatalf("game-ended events = %d, want 1", len(sink.ended))
	}

	// The transition is one-way and its side effects never refire.
	e.finishGame()
	e.tick(16 * time.Millisecond)
	if len(sink.ended) != 1 {
		t.Errorf("game-ended events after repeat = %d, want 1", len(sink.ended))
	}
	if !e.Snapshot().GameOver {
		t.Error("snapshot should report game over")
	}
}

func TestProjectileAndBeamAgainstAsteroid(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)
	stripNonShip(e)
	e.ship.X, e.ship.Y = 10, 10

	// A beam keeps going until its hit budget is spent.
	beam, err := game.NewBeam(cfg, 200, 200, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	e.entities = append(e.entities, beam)

	for i := 0; i < cfg.BeamHits; i++ {
		a := mustAsteroid(t, cfg, 200, 200, game.TierSmall)
		e.entities = append(e.entities, a)
		e.checkCollisions()
		if a.Alive {
			t.Fatalf("hit %d: asteroid survived the beam", i)
		}
	}
	if beam.Alive {
		t.Error("beam should deactivate once its hit budget is spent")
	}
}

func TestShipCollectsPowerUp(t *testing.T) {
	cfg := config.Default()
	sink := &recordSink{}
	e := newTestEngine(t, cfg, sink)
	stripNonShip(e)

	p, err := game.NewPowerUp(cfg, e.rng, game.PowerShield, e.ship.X, e.ship.Y)
	if err != nil {
		t.Fatal(err)
	}
	e.entities = append(e.entities, p)

	e.checkCollisions()

	if p.Alive {
		t.Error("collected power-up should deactivate")
	}
	if !e.ship.Shielded {
		t.Error("collected shield should apply to the ship")
	}
	if len(sink.collected) != 1 || sink.collected[0] != game.PowerShield {
		t.Errorf("collection events = %v, want one shield", sink.collected)
	}
	if got := e.waves.Stats().PowerUpsCollected; got != 1 {
		t.Errorf("collected counter = %d, want 1", got)
	}
}

func TestDestroyingLastAsteroidStartsNextWave(t *testing.T) {
	cfg := config.Default()
	cfg.BaseAsteroids = 1
	sink := &recordSink{}
	e := newTestEngine(t, cfg, sink)

	stripNonShip(e)
	a := mustAsteroid(t, cfg, 100, 100, game.TierSmall)
	e.entities = append(e.entities, a)

	e.destroyAsteroid(a)

	if len(sink.waveCompleted) != 1 {
		t.Fatalf("wave-completed events = %d, want 1", len(sink.waveCompleted))
	}
	if sink.bonuses[0] <= 0 {
		t.Errorf("completion bonus = %d, want > 0", sink.bonuses[0])
	}

	wave := e.waves.Wave()
	if wave.Number != 2 {
		t.Errorf("wave = %d, want 2", wave.Number)
	}
	if wave.AsteroidsRemaining <= 0 {
		t.Errorf("next wave asteroidsRemaining = %d, want > 0", wave.AsteroidsRemaining)
	}

	// Next-wave spawns go through the pending queue, not the live set.
	for _, en := range e.entities {
		if en.Alive && en.Kind == game.KindAsteroid {
			t.Error("next-wave asteroid joined the live set mid-scan")
		}
	}
	if len(e.pending) != wave.AsteroidsRemaining {
		t.Errorf("queued spawns = %d, want %d", len(e.pending), wave.AsteroidsRemaining)
	}

	e.flushPending()
	live := 0
	for _, en := range e.entities {
		if en.Alive && en.Kind == game.KindAsteroid {
			live++
		}
	}
	if live != wave.AsteroidsRemaining {
		t.Errorf("live asteroids after flush = %d, want %d", live, wave.AsteroidsRemaining)
	}
}

func TestSplitChildrenEnterSpawnQueueNotLiveSet(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)
	stripNonShip(e)

	a := mustAsteroid(t, cfg, 100, 100, game.TierLarge)
	a.VX = 6
	e.entities = append(e.entities, a)

	e.destroyAsteroid(a)

	if len(e.pending) != 2 {
		t.Fatalf("pending spawns = %d, want 2 children", len(e.pending))
	}
	for _, en := range e.entities {
		if en.Alive && en.Kind == game.KindAsteroid {
			t.Error("children must not join the live set mid-scan")
		}
	}

	e.flushPending()
	live := 0
	for _, en := range e.entities {
		if en.Alive && en.Kind == game.KindAsteroid {
			live++
		}
	}
	if live != 2 {
		t.Errorf("live children after flush = %d, want 2", live)
	}
}

func TestWaveManagerSafetyCompletion(t *testing.T) {
	cfg := config.Default()
	sink := &recordSink{}
	e := newTestEngine(t, cfg, sink)

	// Empty field with the counter still positive: the wave manager's
	// check must complete the wave on its own.
	stripNonShip(e)
	e.waveCheck()

	if len(sink.waveCompleted) != 1 {
		t.Fatalf("wave-completed events = %d, want 1", len(sink.waveCompleted))
	}
	if got := e.waves.Wave().Number; got != 2 {
		t.Errorf("wave = %d, want 2", got)
	}
}

func TestTickSweepsAndWraps(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)
	stripNonShip(e)

	dead := mustAsteroid(t, cfg, 50, 50, game.TierSmall)
	dead.Alive = false
	stray := mustAsteroid(t, cfg, 50, 50, game.TierSmall)
	stray.X = -2 // past the left edge
	stray.Y = cfg.WorldHeight + 2
	e.entities = append(e.entities, dead, stray)

	e.tick(time.Millisecond)

	for _, en := range e.Snapshot().Entities {
		if !en.Alive {
			t.Error("snapshot contains swept entity")
		}
		if en.X < 0 || en.X > cfg.WorldWidth || en.Y < 0 || en.Y > cfg.WorldHeight {
			t.Errorf("entity at (%v, %v) outside wrapped bounds", en.X, en.Y)
		}
	}
}

func TestFireReturnsProjectilesAndRecordsShots(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)

	volley := e.Fire()
	if len(volley) != 1 {
		t.Fatalf("volley = %d projectiles, want 1", len(volley))
	}
	if volley[0].Kind != game.KindProjectile {
		t.Errorf("volley kind = %v, want projectile", volley[0].Kind)
	}
	if got := e.waves.Stats().ShotsFired; got != 1 {
		t.Errorf("shots fired = %d, want 1", got)
	}

	// Cooldown blocks the immediate follow-up.
	if again := e.Fire(); again != nil {
		t.Error("immediate second fire should be blocked by cooldown")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)

	snap := e.Snapshot()
	if len(snap.Entities) == 0 {
		t.Fatal("expected entities in snapshot")
	}
	orig := snap.Entities[0].X
	snap.Entities[0].X = orig + 1000

	if e.entities[0].X != orig {
		t.Error("mutating a snapshot must not touch live entities")
	}
}

func TestHeldSnapshotStableAcrossTicks(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)

	held := e.Snapshot()
	if len(held.Entities) == 0 {
		t.Fatal("expected entities in snapshot")
	}
	shipX := held.Entities[0].X
	tick := held.Tick

	// Move the world on while the reader still holds the old snapshot.
	e.ship.X += 100
	e.tick(16 * time.Millisecond)
	e.tick(16 * time.Millisecond)

	if held.Entities[0].X != shipX {
		t.Errorf("held snapshot mutated: entity X changed from %v to %v",
			shipX, held.Entities[0].X)
	}
	if held.Tick != tick {
		t.Errorf("held snapshot tick changed from %d to %d", tick, held.Tick)
	}
	if e.Snapshot() == held {
		t.Error("new publications should produce new snapshots")
	}
}

func TestTickFaultIsolated(t *testing.T) {
	cfg := config.Default()
	e := newTestEngine(t, cfg, nil)

	// A nil entity makes the update phase panic; the tick must contain it.
	e.entities = append(e.entities, nil)
	e.safeTick(16 * time.Millisecond)

	e.entities = e.entities[:len(e.entities)-1]
	e.tick(16 * time.Millisecond) // and the loop keeps working
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.WaveCheckInterval = 10 * time.Millisecond
	e := newTestEngine(t, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
