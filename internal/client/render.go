package client

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kvasir-games/rockfall/internal/engine"
	"github.com/kvasir-games/rockfall/internal/game"
)

var (
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderSnapshot draws the playfield scaled to the terminal, one glyph per
// entity, with a HUD line on top.
func renderSnapshot(snap *engine.Snapshot, width, height int) string {
	rows := height - 2 // HUD + status line
	if rows < 1 {
		rows = 1
	}

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	scaleX := float64(width) / snap.Width
	scaleY := float64(rows) / snap.Height

	plot := func(x, y float64, glyph rune) {
		col := int(x * scaleX)
		row := int(y * scaleY)
		if col >= 0 && col < width && row >= 0 && row < rows {
			grid[row][col] = glyph
		}
	}

	for i := range snap.Entities {
		en := &snap.Entities[i]
		plot(en.X, en.Y, glyphFor(en, snap))
	}

	var b strings.Builder
	b.WriteString(hudLine(snap))
	b.WriteByte('\n')
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	if snap.GameOver {
		b.WriteString(bannerStyle.Render(fmt.Sprintf("GAME OVER - score %d - press r to restart, q to quit", snap.Score)))
	} else {
		b.WriteString(dimStyle.Render("arrows/wasd move · space fire · q quit"))
	}
	return b.String()
}

func glyphFor(en *game.Entity, snap *engine.Snapshot) rune {
	switch en.Kind {
	case game.KindShip:
		if snap.Ship.Invulnerable > 0 && int(snap.Ship.Invulnerable*8)%2 == 0 {
			return ' ' // blink while invulnerable
		}
		return shipGlyph(en.Angle)
	case game.KindAsteroid:
		switch en.Tier {
		case game.TierLarge:
			return '@'
		case game.TierMedium:
			return 'O'
		default:
			return 'o'
		}
	case game.KindProjectile:
		return '·'
	case game.KindBeam:
		return '='
	case game.KindPowerUp:
		return powerGlyph(en.Power)
	default:
		return '?'
	}
}

// shipGlyph picks an arrow by facing quadrant.
func shipGlyph(angle float64) rune {
	a := math.Mod(angle+2*math.Pi, 2*math.Pi)
	switch {
	case a < math.Pi/4 || a >= 7*math.Pi/4:
		return '>'
	case a < 3*math.Pi/4:
		return 'v'
	case a < 5*math.Pi/4:
		return '<'
	default:
		return '^'
	}
}

func powerGlyph(p game.PowerKind) rune {
	switch p {
	case game.PowerShield:
		return 'S'
	case game.PowerRapidFire:
		return 'R'
	case game.PowerSpeedBoost:
		return '»'
	case game.PowerSpread:
		return 'F'
	case game.PowerMultiShot:
		return 'M'
	case game.PowerBeam:
		return 'B'
	default:
		return '?'
	}
}

func hudLine(snap *engine.Snapshot) string {
	hud := fmt.Sprintf("score %d  wave %d  lives %d", snap.Score, snap.Wave.Number, snap.Ship.Lives)
	if snap.Wave.Boss {
		hud += "  [BOSS]"
	}
	if snap.Ship.Shielded {
		hud += "  [shield]"
	}
	for kind, remaining := range snap.Ship.Effects {
		if kind == game.PowerShield {
			continue
		}
		hud += fmt.Sprintf("  [%s %.0fs]", kind, remaining)
	}
	return hudStyle.Render(hud)
}
