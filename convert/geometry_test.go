package convert

import (
	"math"
	"testing"

	"domx/figma"
)

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		rectLike bool
		radius   float64
	}{
		{"rectangle", "M0 0L100 0L100 50L0 50L0 0Z", true, 0},
		{"implicit closing side", "M0 0H100V50H0Z", true, 0},
		{"split side", "M0 0L40 0L100 0L100 50L0 50Z", true, 0},
		{"offset rectangle", "M10.5 20.25L60.5 20.25L60.5 40.25L10.5 40.25Z", true, 0},
		{
			"rounded rectangle",
			"M0 8C0 3.58172 3.58172 0 8 0L92 0C96.4183 0 100 3.58172 100 8L100 42C100 46.4183 96.4183 50 92 50L8 50C3.58172 50 0 46.4183 0 42L0 8Z",
			true, 8,
		},
		{"triangle", "M0 0L10 0L5 10Z", false, 0},
		{"rhombus", "M5 0L10 5L5 10L0 5Z", false, 0},
		{"open path", "M0 0L100 0L100 50L0 50", false, 0},
		{"two subpaths", "M0 0H10V10H0ZM20 20H30V30H20Z", false, 0},
		{"trapezoid", "M0 0L100 0L90 50L10 50Z", false, 0},
		{"l shape", "M0 0H20V10H10V20H0Z", false, 0},
		{"garbage", "not a path", false, 0},
		{"empty", "", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyPath(tt.path)
			if got.rectLike != tt.rectLike {
				t.Fatalf("classifyPath(%q).rectLike = %v, want %v", tt.path, got.rectLike, tt.rectLike)
			}
			if math.Abs(got.radius-tt.radius) > 0.1 {
				t.Errorf("classifyPath(%q).radius = %v, want %v", tt.path, got.radius, tt.radius)
			}
		})
	}
}

func TestClassifyGeometryOnlyVectors(t *testing.T) {
	rect := []figma.Path{{Path: "M0 0L100 0L100 50L0 50L0 0Z"}}
	if g := classifyGeometry(&figma.Node{Type: figma.TypeVector, FillGeometry: rect}); !g.rectLike {
		t.Errorf("vector with rectangular geometry is not rect-like")
	}
	if g := classifyGeometry(&figma.Node{Type: figma.TypeStar, FillGeometry: rect}); g.rectLike {
		t.Errorf("star must never be rect-like")
	}
	two := append(rect, figma.Path{Path: "M0 0L1 0L1 1Z"})
	if g := classifyGeometry(&figma.Node{Type: figma.TypeVector, FillGeometry: two}); g.rectLike {
		t.Errorf("vector with several paths must not be rect-like")
	}
}
