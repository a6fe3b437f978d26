package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/kvasir-games/rockfall/internal/config"
)

func TestNewAsteroidTierValidation(t *testing.T) {
	cfg := config.Default()
	for _, tier := range []Tier{0, 4, -1} {
		if _, err := NewAsteroid(cfg, 10, 10, tier, 0, 5); !errors.Is(err, ErrBadTier) {
			t.Errorf("tier %d: err = %v, want ErrBadTier", tier, err)
		}
	}

	a, err := NewAsteroid(cfg, 10, 10, TierLarge, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if want := 3 * cfg.AsteroidUnitRadius; a.Radius != want {
		t.Errorf("tier 3 radius = %v, want %v", a.Radius, want)
	}
}

func TestSplitProducesDivergingChildren(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		parent, err := NewAsteroid(cfg, 100, 100, TierLarge, rng.Float64()*2*math.Pi, 8)
		if err != nil {
			t.Fatal(err)
		}
		parentHeading := parent.Heading()
		parentSpeed := parent.Speed()

		children := parent.Split(cfg, rng)
		if len(children) != 2 {
			t.Fatalf("Split produced %d children, want 2", len(children))
		}

		for _, child := range children {
			if child.Tier != TierMedium {
				t.Errorf("tier-3 split child tier = %d, want 2", child.Tier)
			}
			if child.X != parent.X || child.Y != parent.Y {
				t.Error("children must spawn at the parent position")
			}

			diverge := math.Abs(angleDiff(child.Heading(), parentHeading))
			if diverge < math.Pi/6-1e-9 || diverge > math.Pi/3+1e-9 {
				t.Errorf("child heading diverges %v rad, want within [30°, 60°]", diverge)
			}

			ratio := child.Speed() / parentSpeed
			if ratio < 0.8-1e-9 || ratio > 1.2+1e-9 {
				t.Errorf("child speed ratio = %v, want within [0.8, 1.2]", ratio)
			}
		}
	}
}

func TestSplitSmallestTierYieldsNothing(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(1))

	small, err := NewAsteroid(cfg, 50, 50, TierSmall, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if children := small.Split(cfg, rng); children != nil {
		t.Errorf("tier-1 split = %d children, want none", len(children))
	}
}

func TestNewAsteroidAtEdgeSweepsInward(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		a, err := NewAsteroidAtEdge(cfg, rng, TierMedium, 1.0)
		if err != nil {
			t.Fatal(err)
		}

		onEdge := a.X <= 1 || a.X >= cfg.WorldWidth-1 || a.Y <= 1 || a.Y >= cfg.WorldHeight-1
		if !onEdge {
			t.Errorf("asteroid spawned at (%v, %v), want on a playfield edge", a.X, a.Y)
		}
		if a.Tier != TierMedium {
			t.Errorf("edge spawn tier = %d, want %d", a.Tier, TierMedium)
		}
		if want := float64(TierMedium) * cfg.AsteroidUnitRadius; a.Radius != want {
			t.Errorf("edge spawn radius = %v, want %v", a.Radius, want)
		}

		// Heading is center-biased with up to ±45° perturbation, so it can
		// be at most 45° off the exact to-center bearing.
		toCenter := math.Atan2(cfg.WorldHeight/2-a.Y, cfg.WorldWidth/2-a.X)
		if off := math.Abs(angleDiff(a.Heading(), toCenter)); off > math.Pi/4+1e-9 {
			t.Errorf("heading %v off center bearing, want <= 45°", off)
		}
	}
}

// angleDiff returns the signed smallest difference between two angles.
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
