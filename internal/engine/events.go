// Package engine runs the real-time simulation: the fixed-cadence tick
// loop, the collision pipeline, entity lifecycle and the wave manager
// task. Rendering, audio and persistence are external collaborators that
// consume snapshots and events; the engine never calls into them
// synchronously for answers.
package engine

import (
	"time"

	"github.com/kvasir-games/rockfall/internal/game"
)

// EffectKind names a visual-effect trigger. The engine carries no drawing
// responsibility; consumers decide what an explosion looks like.
type EffectKind int

const (
	FxExplosion EffectKind = iota
	FxDebris
	FxWarp
	FxImpactSpark
	FxThrust
)

// String returns the effect name used in telemetry.
func (k EffectKind) String() string {
	switch k {
	case FxExplosion:
		return "explosion"
	case FxDebris:
		return "debris"
	case FxWarp:
		return "warp"
	case FxImpactSpark:
		return "impact_spark"
	case FxThrust:
		return "thrust"
	default:
		return "unknown"
	}
}

// Effect is a visual-effect trigger carrying only position and intensity.
type Effect struct {
	Kind      EffectKind
	X, Y      float64
	Intensity float64
}

// Summary describes a finished game for the persistence collaborator.
type Summary struct {
	Score          int
	WavesCompleted int
	FinalWave      int
	Duration       time.Duration
}

// Sink receives the engine's discrete outbound events. Implementations are
// injected at engine construction and must return quickly without calling
// back into the engine; methods may run while the engine holds its world
// lock.
type Sink interface {
	AsteroidDestroyed(tier game.Tier, wave, score int)
	WaveCompleted(stats game.Stats, bonus int)
	PowerUpCollected(kind game.PowerKind, wave int)
	GameEnded(summary Summary)
	Effect(fx Effect)
	Audio(cue string)
}

// NopSink discards every event. Useful default and test stand-in.
type NopSink struct{}

func (NopSink) AsteroidDestroyed(game.Tier, int, int)  {}
func (NopSink) WaveCompleted(game.Stats, int)          {}
func (NopSink) PowerUpCollected(game.PowerKind, int)   {}
func (NopSink) GameEnded(Summary)                      {}
func (NopSink) Effect(Effect)                          {}
func (NopSink) Audio(string)                           {}

var _ Sink = NopSink{}
