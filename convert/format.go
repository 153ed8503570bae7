package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"domx/figma"
)

// round2 rounds to 2 decimal places, never returns negative zero.
func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

func num(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func px(v float64) string {
	return num(v) + "px"
}

func pct(v float64) string {
	return num(v) + "%"
}

func deg(v float64) string {
	return num(v) + "deg"
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// rgba formats color with alpha multiplied by opacity.
func rgba(c figma.Color, opacity float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", channel(c.R), channel(c.G), channel(c.B), num(c.A*opacity))
}

func paintColor(p *figma.Paint) string {
	if p == nil || p.Color == nil {
		return ""
	}
	return rgba(*p.Color, p.Alpha())
}

func stopList(p *figma.Paint, unit func(float64) string) string {
	parts := make([]string, 0, len(p.GradientStops))
	for _, s := range p.GradientStops {
		parts = append(parts, rgba(s.Color, p.Alpha())+" "+unit(s.Position))
	}
	return strings.Join(parts, ", ")
}

func handles(p *figma.Paint) (figma.Vector, figma.Vector) {
	var h0, h1 = figma.Vector{X: 0.5, Y: 0}, figma.Vector{X: 0.5, Y: 1}
	if len(p.GradientHandlePositions) > 0 {
		h0 = p.GradientHandlePositions[0]
	}
	if len(p.GradientHandlePositions) > 1 {
		h1 = p.GradientHandlePositions[1]
	}
	return h0, h1
}

// gradient renders gradient paint as CSS image function. Handle positions
// are relative to node box of size w x h, CSS angle 0 points up.
func gradient(p *figma.Paint, w, h float64) string {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	h0, h1 := handles(p)
	stopPct := func(v float64) string { return pct(v * 100) }

	switch p.Type {
	case figma.PaintGradientLinear:
		angle := math.Atan2((h1.Y-h0.Y)*h, (h1.X-h0.X)*w)*180/math.Pi + 90
		if angle < 0 {
			angle += 360
		}
		return "linear-gradient(" + deg(angle) + ", " + stopList(p, stopPct) + ")"
	case figma.PaintGradientRadial:
		return "radial-gradient(ellipse at " + pct(h0.X*100) + " " + pct(h0.Y*100) + ", " + stopList(p, stopPct) + ")"
	case figma.PaintGradientAngular:
		angle := math.Atan2((h1.Y-h0.Y)*h, (h1.X-h0.X)*w)*180/math.Pi + 90
		if angle < 0 {
			angle += 360
		}
		stopDeg := func(v float64) string { return deg(v * 360) }
		return "conic-gradient(from " + deg(angle) + " at " + pct(h0.X*100) + " " + pct(h0.Y*100) + ", " + stopList(p, stopDeg) + ")"
	}
	return ""
}

var blendModes = map[string]string{
	"MULTIPLY":    "multiply",
	"SCREEN":      "screen",
	"OVERLAY":     "overlay",
	"DARKEN":      "darken",
	"LIGHTEN":     "lighten",
	"COLOR_DODGE": "color-dodge",
	"COLOR_BURN":  "color-burn",
	"HARD_LIGHT":  "hard-light",
	"SOFT_LIGHT":  "soft-light",
	"DIFFERENCE":  "difference",
	"EXCLUSION":   "exclusion",
	"HUE":         "hue",
	"SATURATION":  "saturation",
	"COLOR":       "color",
	"LUMINOSITY":  "luminosity",
}

// blendMode maps blend mode to CSS keyword, unknown, absent and pass
// through modes are "normal".
func blendMode(m string) string {
	if v, ok := blendModes[m]; ok {
		return v
	}
	return "normal"
}
