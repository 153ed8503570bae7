package convert

import (
	"reflect"
	"strings"
	"testing"

	"domx/figma"
	"domx/model"
)

// styleOf builds tree and returns style of node with given scene id.
func styleOf(t *testing.T, root *figma.Node, id string) model.Style {
	t.Helper()
	tree, _ := build(t, root)
	n := nodeBySource(tree, id)
	if n == nil {
		t.Fatalf("node %s is not built", id)
	}
	return n.Style()
}

func TestStyleIdempotent(t *testing.T) {
	child := frame("1:2", "Card", 100, 50)
	child.Fills = []figma.Paint{solid(1, 1, 1, 1), {Type: figma.PaintImage, ImageRef: "r", ScaleMode: "TILE", ScalingFactor: 0.5}}
	child.Strokes = []figma.Paint{solid(0, 0, 0, 1)}
	child.StrokeWeight = 2
	child.StrokeAlign = "INSIDE"
	child.Effects = []figma.Effect{{Type: figma.EffectDropShadow, Radius: 4, Offset: &figma.Vector{Y: 2}, Color: &figma.Color{A: 0.25}}}
	root := frame("1:1", "Page", 800, 600, child)

	tree, _ := build(t, root)
	n := nodeBySource(tree, "1:2")
	first := copyStyle(n.Style())
	second := copyStyle(n.Style())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Style() is not stable: %v vs %v", first, second)
	}

	other, _ := build(t, root)
	if again := other.nodes[n.index].Style(); !reflect.DeepEqual(first, copyStyle(again)) {
		t.Errorf("Style() differs between passes: %v vs %v", first, again)
	}
}

func copyStyle(st model.Style) map[string]string {
	res := make(map[string]string, len(st))
	for k, v := range st {
		res[k] = v
	}
	return res
}

func TestBackgroundScaleModes(t *testing.T) {
	tests := []struct {
		mode                   string
		size, position, repeat string
	}{
		{"FILL", "cover", "center", "no-repeat"},
		{"FIT", "contain", "center", "no-repeat"},
		{"TILE", "50%", "top left", "repeat"},
		{"STRETCH", "100% 100%", "top left", "no-repeat"},
	}
	seen := make(map[string]string)
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			child := frame("1:2", "Box", 100, 100)
			child.Fills = []figma.Paint{
				solid(1, 1, 1, 1),
				{Type: figma.PaintImage, ImageRef: "img", ScaleMode: tt.mode, ScalingFactor: 0.5},
			}
			st := styleOf(t, frame("1:1", "Page", 800, 600, child), "1:2")

			if got := st["background-image"]; got != `url("asset:img")` {
				t.Errorf("background-image = %q", got)
			}
			if got := st["background-color"]; got != "rgba(255, 255, 255, 1)" {
				t.Errorf("background-color = %q", got)
			}
			if st["background-size"] != tt.size || st["background-position"] != tt.position || st["background-repeat"] != tt.repeat {
				t.Errorf("%s = (%q, %q, %q), want (%q, %q, %q)", tt.mode,
					st["background-size"], st["background-position"], st["background-repeat"], tt.size, tt.position, tt.repeat)
			}
			if got := st["background-blend-mode"]; got != "normal" {
				t.Errorf("background-blend-mode = %q, want normal", got)
			}
			key := st["background-size"] + "|" + st["background-position"] + "|" + st["background-repeat"]
			if prev, ok := seen[key]; ok {
				t.Errorf("modes %s and %s map to the same properties", prev, tt.mode)
			}
			seen[key] = tt.mode
		})
	}
}

func TestBackgroundLayersOrder(t *testing.T) {
	stops := []figma.ColorStop{{Position: 0, Color: figma.Color{R: 1, A: 1}}, {Position: 1, Color: figma.Color{B: 1, A: 1}}}
	child := frame("1:2", "Box", 100, 100)
	child.Fills = []figma.Paint{
		{Type: figma.PaintGradientRadial, GradientStops: stops, BlendMode: "MULTIPLY"},
		{Type: figma.PaintGradientLinear, GradientStops: stops, GradientHandlePositions: []figma.Vector{{X: 0.5, Y: 0}, {X: 0.5, Y: 1}}},
		{Type: figma.PaintImage, ImageRef: "img", ScaleMode: "FILL"},
		{Type: figma.PaintGradientLinear, GradientStops: stops[:1]},
	}
	st := styleOf(t, frame("1:1", "Page", 800, 600, child), "1:2")

	layers := strings.Split(st["background-image"], "), ")
	if len(layers) != 3 {
		t.Fatalf("background-image = %q, want 3 layers", st["background-image"])
	}
	if !strings.HasPrefix(layers[0], "url(") || !strings.HasPrefix(layers[1], "linear-gradient(180deg") || !strings.HasPrefix(layers[2], "radial-gradient(") {
		t.Errorf("background-image order = %q", st["background-image"])
	}
	if got := st["background-blend-mode"]; got != "normal, normal, multiply" {
		t.Errorf("background-blend-mode = %q", got)
	}
	if got := st["background-color"]; got != "rgba(255, 0, 0, 1)" {
		t.Errorf("single stop gradient background-color = %q", got)
	}
}

func TestSingleStopGradient(t *testing.T) {
	for _, kind := range []string{figma.PaintGradientLinear, figma.PaintGradientRadial, figma.PaintGradientAngular} {
		t.Run(kind, func(t *testing.T) {
			child := frame("1:2", "Box", 100, 100)
			child.Fills = []figma.Paint{{
				Type:          kind,
				Opacity:       ptr(0.5),
				GradientStops: []figma.ColorStop{{Position: 0.3, Color: figma.Color{R: 1, G: 0, B: 0, A: 0.5}}},
			}}
			st := styleOf(t, frame("1:1", "Page", 800, 600, child), "1:2")
			if got := st["background-color"]; got != "rgba(255, 0, 0, 0.25)" {
				t.Errorf("background-color = %q, want rgba(255, 0, 0, 0.25)", got)
			}
			for k, v := range st {
				if strings.Contains(v, "-gradient(") {
					t.Errorf("%s = %q contains gradient", k, v)
				}
			}
		})
	}
}

func TestGradientText(t *testing.T) {
	tn := text("1:2", "Headline", "Wow")
	tn.Fills = []figma.Paint{{Type: figma.PaintGradientLinear, GradientStops: []figma.ColorStop{
		{Position: 0, Color: figma.Color{R: 1, A: 1}}, {Position: 1, Color: figma.Color{G: 1, A: 1}},
	}}}
	st := styleOf(t, frame("1:1", "Page", 800, 600, tn), "1:2")

	want := map[string]string{
		"color":                   "transparent",
		"-webkit-text-fill-color": "transparent",
		"background-clip":         "text",
		"-webkit-background-clip": "text",
	}
	for k, v := range want {
		if st[k] != v {
			t.Errorf("%s = %q, want %q", k, st[k], v)
		}
	}
	if !strings.HasPrefix(st["background-image"], "linear-gradient(") {
		t.Errorf("background-image = %q", st["background-image"])
	}
	if _, ok := st["background-color"]; ok {
		t.Errorf("text must not get background-color")
	}
}

func TestAutoLayout(t *testing.T) {
	t.Run("flex row", func(t *testing.T) {
		f := frame("1:2", "Row", 300, 50)
		f.LayoutMode = figma.LayoutHorizontal
		f.PrimaryAxisAlignItems = "SPACE_BETWEEN"
		f.CounterAxisAlignItems = "CENTER"
		f.ItemSpacing = 8
		f.PaddingLeft = 16
		st := styleOf(t, frame("1:1", "Page", 800, 600, f), "1:2")
		want := map[string]string{
			"display":         "flex",
			"flex-direction":  "row",
			"justify-content": "space-between",
			"align-items":     "center",
			"padding-left":    "16px",
		}
		for k, v := range want {
			if st[k] != v {
				t.Errorf("%s = %q, want %q", k, st[k], v)
			}
		}
		if _, ok := st["gap"]; ok {
			t.Errorf("gap must be absent for space-between")
		}
	})
	t.Run("wrap", func(t *testing.T) {
		f := frame("1:2", "Wrap", 300, 50)
		f.LayoutMode = figma.LayoutHorizontal
		f.LayoutWrap = "WRAP"
		f.ItemSpacing = 8
		f.CounterAxisSpacing = 12
		st := styleOf(t, frame("1:1", "Page", 800, 600, f), "1:2")
		if st["flex-wrap"] != "wrap" || st["column-gap"] != "8px" || st["row-gap"] != "12px" {
			t.Errorf("wrap style = %v", st)
		}
	})
	t.Run("grid", func(t *testing.T) {
		f := frame("1:2", "Grid", 300, 300)
		f.LayoutMode = figma.LayoutGrid
		f.PrimaryAxisAlignItems = "CENTER"
		f.CounterAxisAlignItems = "MAX"
		f.GridColumnCount = 3
		f.GridRowCount = 2
		f.GridRowGap = 4
		f.GridColumnGap = 6
		st := styleOf(t, frame("1:1", "Page", 800, 600, f), "1:2")
		for _, absent := range []string{"align-items", "justify-content", "flex-direction", "gap"} {
			if v, ok := st[absent]; ok {
				t.Errorf("%s = %q, want absent for grid", absent, v)
			}
		}
		want := map[string]string{
			"display":               "grid",
			"place-content":         "start center",
			"place-items":           "end",
			"grid-template-columns": "repeat(3, minmax(0, 1fr))",
			"grid-template-rows":    "repeat(2, minmax(0, 1fr))",
			"row-gap":               "4px",
			"column-gap":            "6px",
		}
		for k, v := range want {
			if st[k] != v {
				t.Errorf("%s = %q, want %q", k, st[k], v)
			}
		}
	})
	t.Run("children sizing", func(t *testing.T) {
		fill := frame("1:3", "Fill", 50, 20)
		fill.LayoutSizingHorizontal = "FILL"
		fill.LayoutSizingVertical = "FILL"
		fixed := frame("1:4", "Fixed", 40, 20)
		hug := frame("1:5", "Hug", 40, 20)
		hug.LayoutSizingHorizontal = "HUG"
		row := frame("1:2", "Row", 300, 50, fill, fixed, hug)
		row.LayoutMode = figma.LayoutHorizontal
		root := frame("1:1", "Page", 800, 600, row)

		tree, _ := build(t, root)
		st := nodeBySource(tree, "1:3").Style()
		if st["flex-grow"] != "1" || st["align-self"] != "stretch" {
			t.Errorf("fill child = %v", st)
		}
		for _, absent := range []string{"width", "height", "position", "z-index"} {
			if v, ok := st[absent]; ok {
				t.Errorf("fill child %s = %q, want absent", absent, v)
			}
		}
		st = nodeBySource(tree, "1:4").Style()
		if st["width"] != "40px" || st["height"] != "20px" || st["flex-shrink"] != "0" {
			t.Errorf("fixed child = %v", st)
		}
		st = nodeBySource(tree, "1:5").Style()
		if _, ok := st["width"]; ok {
			t.Errorf("hug child width = %q, want absent", st["width"])
		}
	})
}

func positioned(tx, ty, w, h float64, horizontal, vertical string) *figma.Node {
	n := frame("1:2", "Child", w, h)
	n.RelativeTransform = &figma.Transform{{1, 0, tx}, {0, 1, ty}}
	n.Constraints = &figma.LayoutConstraint{Horizontal: horizontal, Vertical: vertical}
	return n
}

func TestOffsets(t *testing.T) {
	tests := []struct {
		name                     string
		horizontal, vertical     string
		top, right, bottom, left string
	}{
		{"left top", "LEFT", "TOP", "20px", "", "", "10px"},
		{"right bottom", "RIGHT", "BOTTOM", "", "60px", "140px", ""},
		{"center", "CENTER", "CENTER", "calc(50% - 80px)", "", "", "calc(50% - 40px)"},
		{"stretch", "LEFT_RIGHT", "TOP_BOTTOM", "20px", "10px", "20px", "10px"},
		{"scale", "SCALE", "SCALE", "10%", "", "", "10%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			child := positioned(10, 20, 30, 40, tt.horizontal, tt.vertical)
			st := styleOf(t, frame("1:1", "Page", 100, 200, child), "1:2")
			got := [4]string{st["top"], st["right"], st["bottom"], st["left"]}
			want := [4]string{tt.top, tt.right, tt.bottom, tt.left}
			if got != want {
				t.Errorf("offsets (top, right, bottom, left) = %q, want %q", got, want)
			}
			if st["position"] != "absolute" {
				t.Errorf("position = %q, want absolute", st["position"])
			}
		})
	}
}

func TestRootIsRelativeWithPositionedChildren(t *testing.T) {
	root := frame("1:1", "Page", 100, 200, positioned(0, 0, 10, 10, "LEFT", "TOP"))
	st := styleOf(t, root, "1:1")
	if st["position"] != "relative" || st["width"] != "100px" || st["min-height"] != "200px" {
		t.Errorf("root style = %v", st)
	}
	if _, ok := st["z-index"]; ok {
		t.Errorf("root must not get z-index")
	}
}

func TestRotatedOffsets(t *testing.T) {
	child := frame("1:2", "Rotated", 20, 10)
	child.Rotation = 90
	child.AbsoluteBoundingBox = rect(105, 210, 10, 20)
	root := frame("1:1", "Page", 100, 200, child)
	root.AbsoluteBoundingBox = rect(100, 200, 100, 200)

	st := styleOf(t, root, "1:2")
	if st["left"] != "0px" || st["top"] != "15px" || st["transform"] != "rotate(-90deg)" {
		t.Errorf("rotated style = left %q top %q transform %q", st["left"], st["top"], st["transform"])
	}
}

func TestZIndex(t *testing.T) {
	for _, reverse := range []bool{false, true} {
		root := frame("1:1", "Page", 100, 100,
			frame("1:2", "A", 10, 10), frame("1:3", "B", 10, 10), frame("1:4", "C", 10, 10))
		root.ItemReverseZIndex = reverse
		tree, _ := build(t, root)

		for i, id := range []string{"1:2", "1:3", "1:4"} {
			want := []string{"1000", "1001", "1002"}[i]
			if reverse {
				want = []string{"1002", "1001", "1000"}[i]
			}
			if got := nodeBySource(tree, id).Style()["z-index"]; got != want {
				t.Errorf("reverse=%v z-index of %s = %q, want %q", reverse, id, got, want)
			}
		}
	}

	inner := frame("1:3", "Inner", 10, 10)
	row := frame("1:2", "Row", 50, 10, inner)
	row.LayoutMode = figma.LayoutHorizontal
	st := styleOf(t, frame("1:1", "Page", 100, 100, row), "1:3")
	if v, ok := st["z-index"]; ok {
		t.Errorf("in-flow node z-index = %q, want absent", v)
	}
	deep := frame("1:4", "Deep", 5, 5)
	st = styleOf(t, frame("1:1", "Page", 100, 100, frame("1:2", "A", 50, 50, frame("1:3", "B", 20, 20, deep))), "1:4")
	if st["z-index"] != "3000" {
		t.Errorf("deep z-index = %q, want 3000", st["z-index"])
	}
}

func TestBorders(t *testing.T) {
	black := solid(0, 0, 0, 1)
	stops := []figma.ColorStop{{Position: 0, Color: figma.Color{R: 1, A: 1}}, {Position: 1, Color: figma.Color{B: 1, A: 1}}}
	tests := []struct {
		name    string
		align   string
		weight  float64
		sides   *figma.StrokeWeights
		dashes  []float64
		strokes []figma.Paint
		want    map[string]string
		absent  []string
	}{
		{
			name: "center solid", align: "CENTER", weight: 2, strokes: []figma.Paint{black},
			want:   map[string]string{"border-width": "2px", "border-style": "solid", "border-color": "rgba(0, 0, 0, 1)"},
			absent: []string{"outline", "box-shadow", "border-image-source"},
		},
		{
			name: "center sides", align: "CENTER", sides: &figma.StrokeWeights{Top: 1, Right: 2, Bottom: 3, Left: 4}, strokes: []figma.Paint{black},
			want: map[string]string{"border-width": "1px 2px 3px 4px"},
		},
		{
			name: "dotted", align: "CENTER", weight: 4, dashes: []float64{1, 4}, strokes: []figma.Paint{black},
			want: map[string]string{"border-style": "dotted"},
		},
		{
			name: "zero dash", align: "CENTER", weight: 1, dashes: []float64{0, 3}, strokes: []figma.Paint{black},
			want: map[string]string{"border-style": "dotted"},
		},
		{
			name: "dashed", align: "CENTER", weight: 2, dashes: []float64{10, 5}, strokes: []figma.Paint{black},
			want: map[string]string{"border-style": "dashed"},
		},
		{
			name: "topmost stroke wins", align: "CENTER", weight: 1,
			strokes: []figma.Paint{black, solid(1, 0, 0, 1)},
			want:    map[string]string{"border-color": "rgba(255, 0, 0, 1)"},
		},
		{
			name: "gradient border", align: "CENTER", weight: 2,
			strokes: []figma.Paint{black, {Type: figma.PaintGradientLinear, GradientStops: stops}},
			want:    map[string]string{"border-image-slice": "1", "border-image-repeat": "stretch"},
			absent:  []string{"border-color"},
		},
		{
			name: "inside uniform", align: "INSIDE", weight: 2, strokes: []figma.Paint{black},
			want:   map[string]string{"box-shadow": "inset 0 0 0 2px rgba(0, 0, 0, 1)"},
			absent: []string{"border-width", "outline"},
		},
		{
			name: "inside sides", align: "INSIDE", sides: &figma.StrokeWeights{Top: 1, Left: 2}, strokes: []figma.Paint{black},
			want: map[string]string{"box-shadow": "inset 0 1px 0 0 rgba(0, 0, 0, 1), inset 2px 0 0 0 rgba(0, 0, 0, 1)"},
		},
		{
			name: "outside", align: "OUTSIDE", weight: 3, strokes: []figma.Paint{black},
			want:   map[string]string{"outline": "3px solid rgba(0, 0, 0, 1)"},
			absent: []string{"border-width", "box-shadow"},
		},
		{
			name: "outside sides", align: "OUTSIDE", sides: &figma.StrokeWeights{Top: 1, Left: 2}, strokes: []figma.Paint{black},
			absent: []string{"outline", "border-width", "box-shadow"},
		},
		{
			name: "invisible stroke", align: "CENTER", weight: 2, strokes: []figma.Paint{{Type: figma.PaintSolid, Visible: ptr(false), Color: &figma.Color{A: 1}}},
			absent: []string{"border-width", "border-style", "border-color"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			child := frame("1:2", "Box", 100, 100)
			child.StrokeAlign = tt.align
			child.StrokeWeight = tt.weight
			child.IndividualStrokeWeights = tt.sides
			child.StrokeDashes = tt.dashes
			child.Strokes = tt.strokes
			st := styleOf(t, frame("1:1", "Page", 800, 600, child), "1:2")
			for k, v := range tt.want {
				if st[k] != v {
					t.Errorf("%s = %q, want %q", k, st[k], v)
				}
			}
			for _, k := range tt.absent {
				if v, ok := st[k]; ok {
					t.Errorf("%s = %q, want absent", k, v)
				}
			}
		})
	}
}

func TestEffectsAndCorners(t *testing.T) {
	child := frame("1:2", "Card", 100, 100)
	child.CornerRadius = 8
	child.Effects = []figma.Effect{
		{Type: figma.EffectDropShadow, Radius: 4, Offset: &figma.Vector{X: 1, Y: 2}, Color: &figma.Color{A: 0.25}},
		{Type: figma.EffectInnerShadow, Radius: 2, Color: &figma.Color{R: 1, A: 1}},
		{Type: figma.EffectLayerBlur, Radius: 10},
		{Type: figma.EffectBackgroundBlur, Radius: 6},
		{Type: figma.EffectLayerBlur, Radius: 20, Visible: ptr(false)},
	}
	st := styleOf(t, frame("1:1", "Page", 800, 600, child), "1:2")
	want := map[string]string{
		"box-shadow":              "1px 2px 4px 0px rgba(0, 0, 0, 0.25), inset 0px 0px 2px 0px rgba(255, 0, 0, 1)",
		"filter":                  "blur(5px)",
		"backdrop-filter":         "blur(3px)",
		"-webkit-backdrop-filter": "blur(3px)",
		"border-radius":           "8px",
	}
	for k, v := range want {
		if st[k] != v {
			t.Errorf("%s = %q, want %q", k, st[k], v)
		}
	}

	ellipse := &figma.Node{ID: "1:3", Name: "Dot", Type: figma.TypeEllipse, Size: &figma.Vector{X: 10, Y: 10}}
	if got := styleOf(t, frame("1:1", "Page", 800, 600, ellipse), "1:3")["border-radius"]; got != "50%" {
		t.Errorf("ellipse border-radius = %q, want 50%%", got)
	}

	corners := frame("1:4", "Corners", 10, 10)
	corners.RectangleCornerRadii = []float64{1, 2, 3, 4.456}
	if got := styleOf(t, frame("1:1", "Page", 800, 600, corners), "1:4")["border-radius"]; got != "1px 2px 3px 4.46px" {
		t.Errorf("corner radii = %q", got)
	}

	rounded := &figma.Node{ID: "1:5", Name: "Vec", Type: figma.TypeVector, Size: &figma.Vector{X: 100, Y: 50},
		FillGeometry: []figma.Path{{Path: "M0 8C0 3.58172 3.58172 0 8 0L92 0C96.4183 0 100 3.58172 100 8L100 42C100 46.4183 96.4183 50 92 50L8 50C3.58172 50 0 46.4183 0 42L0 8Z"}},
		Fills:        []figma.Paint{solid(0, 0, 1, 1)}}
	tree, nodes := build(t, frame("1:1", "Page", 800, 600, rounded))
	if got := nodes["n1-5"].TagName; got != "div" {
		t.Errorf("rect-like vector tag = %q, want div", got)
	}
	if got := nodeBySource(tree, "1:5").Style()["border-radius"]; got != "8px" {
		t.Errorf("rect-like vector border-radius = %q, want 8px", got)
	}
}

func TestTextStyle(t *testing.T) {
	tn := text("1:2", "Body", "line one\nline two")
	tn.Style = &figma.TypeStyle{
		FontFamily:          "Open Sans",
		FontSize:            14.333,
		FontWeight:          600,
		Italic:              true,
		LineHeightPx:        20,
		LineHeightUnit:      "PIXELS",
		LetterSpacing:       0.5,
		TextAlignHorizontal: "CENTER",
		TextDecoration:      "UNDERLINE",
		TextCase:            "UPPER",
		ParagraphIndent:     12,
	}
	tn.Effects = []figma.Effect{{Type: figma.EffectDropShadow, Radius: 2, Offset: &figma.Vector{X: 1, Y: 1}, Color: &figma.Color{A: 0.5}}}
	st := styleOf(t, frame("1:1", "Page", 800, 600, tn), "1:2")

	want := map[string]string{
		"color":           "rgba(0, 0, 0, 1)",
		"font-family":     `"Open Sans"`,
		"font-size":       "14.33px",
		"font-weight":     "600",
		"font-style":      "italic",
		"line-height":     "20px",
		"letter-spacing":  "0.5px",
		"text-align":      "center",
		"text-decoration": "underline",
		"text-transform":  "uppercase",
		"text-indent":     "12px",
		"white-space":     "pre-wrap",
		"text-shadow":     "1px 1px 2px rgba(0, 0, 0, 0.5)",
	}
	for k, v := range want {
		if st[k] != v {
			t.Errorf("%s = %q, want %q", k, st[k], v)
		}
	}
	if v, ok := st["box-shadow"]; ok {
		t.Errorf("text box-shadow = %q, want absent", v)
	}

	clamp := text("1:3", "Clamp", "long")
	clamp.Style.TextTruncation = "ENDING"
	clamp.Style.MaxLines = 3
	st = styleOf(t, frame("1:1", "Page", 800, 600, clamp), "1:3")
	if st["display"] != "-webkit-box" || st["-webkit-line-clamp"] != "3" || st["text-overflow"] != "ellipsis" || st["overflow"] != "hidden" {
		t.Errorf("line clamp style = %v", st)
	}
}

func TestNameStyleOverridesDerived(t *testing.T) {
	child := frame("1:2", "div[style=width: 50%; color: red]", 100, 100)
	st := styleOf(t, frame("1:1", "Page", 800, 600, child), "1:2")
	if st["width"] != "50%" || st["color"] != "red" {
		t.Errorf("name declarations not applied: %v", st)
	}
}

func TestInvisibleNode(t *testing.T) {
	child := frame("1:2", "Hidden", 100, 100)
	child.Visible = ptr(false)
	child.Opacity = ptr(0.3)
	child.BlendMode = "MULTIPLY"
	st := styleOf(t, frame("1:1", "Page", 800, 600, child), "1:2")
	if st["display"] != "none" || st["opacity"] != "0.3" || st["mix-blend-mode"] != "multiply" {
		t.Errorf("style = %v", st)
	}
}
