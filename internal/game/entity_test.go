package game

import (
	"errors"
	"math"
	"testing"
)

func TestNewEntityRejectsNonFinite(t *testing.T) {
	bad := []struct {
		name string
		x, y float64
	}{
		{"nan x", math.NaN(), 0},
		{"nan y", 0, math.NaN()},
		{"inf x", math.Inf(1), 0},
		{"neg inf y", 0, math.Inf(-1)},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEntity(KindAsteroid, tt.x, tt.y, 1); !errors.Is(err, ErrNonFinite) {
				t.Errorf("NewEntity(%v, %v) err = %v, want ErrNonFinite", tt.x, tt.y, err)
			}
		})
	}

	e, err := NewEntity(KindAsteroid, 10, 20, 1)
	if err != nil {
		t.Fatalf("NewEntity with finite coords: %v", err)
	}
	if !e.Alive {
		t.Error("new entity should be alive")
	}
}

func TestCollidableExcludesZeroRadius(t *testing.T) {
	e, err := NewEntity(KindProjectile, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if e.Collidable() {
		t.Error("radius 0 entity must never participate in collision")
	}

	e.Radius = -1
	if e.Collidable() {
		t.Error("negative radius entity must never participate in collision")
	}

	e.Radius = 0.5
	if !e.Collidable() {
		t.Error("positive radius live entity should be collidable")
	}

	e.Alive = false
	if e.Collidable() {
		t.Error("dead entity should not be collidable")
	}
}

func TestHeadingFallsBackToFacing(t *testing.T) {
	e, _ := NewEntity(KindShip, 0, 0, 1)
	e.Angle = 1.25
	if got := e.Heading(); got != 1.25 {
		t.Errorf("Heading at rest = %v, want facing angle 1.25", got)
	}

	e.VX, e.VY = 1, 1
	if got := e.Heading(); math.Abs(got-math.Pi/4) > 1e-9 {
		t.Errorf("Heading = %v, want %v", got, math.Pi/4)
	}
}
