// Package view draws simulation state on a terminal.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/pthm-cable/psychics/telemetry"
	"github.com/pthm-cable/psychics/world"
)

var glyphs = map[world.Species]string{
	world.Wall:    "#",
	world.Empty:   ".",
	world.Agent:   "a",
	world.Beacon:  "B",
	world.Painted: "+",
}

var glyphColors = map[world.Species]aurora.Color{
	world.Wall:    aurora.BlueFg,
	world.Agent:   aurora.GreenFg,
	world.Beacon:  aurora.RedFg,
	world.Painted: aurora.CyanFg,
}

// Glyph returns the single-character symbol for a species.
func Glyph(s world.Species) string {
	if g, ok := glyphs[s]; ok {
		return g
	}
	return "?"
}

// RenderMap writes the tile grid one row per line, row 0 first.
func RenderMap(w io.Writer, m *world.Map, colors bool) error {
	var b strings.Builder
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			s := m.At(world.Coord{X: x, Y: y})
			g := Glyph(s)
			if c, ok := glyphColors[s]; ok && colors {
				g = aurora.Colorize(g, c).String()
			}
			b.WriteString(g)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderStats writes a one-line generation summary.
func RenderStats(w io.Writer, s telemetry.GenerationStats, colors bool) error {
	parts := []string{
		field("gen", colors, "%d", s.Generation),
		field("best", colors, "%.1f", s.FitnessMax),
		field("mean", colors, "%.1f", s.FitnessMean),
		field("dist", colors, "%.1f", s.DistanceMean),
		field("reached", colors, "%d/%d", s.Reached, s.Psychics),
		field("diverse", colors, "%d", s.Diverse),
		field("select", colors, "%s", s.Selection),
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

func field(name string, colors bool, format string, values ...any) string {
	if colors {
		name = aurora.Colorize(name, aurora.GreenFg).String()
	}
	return name + ": " + fmt.Sprintf(format, values...)
}
