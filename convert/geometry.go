package convert

import (
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"domx/figma"
)

// geometry is the result of vector path analysis.
type geometry struct {
	rectLike bool
	radius   float64
}

// tolerance for axis alignment and point comparison, in path units, must be
// above 26.6 fixed point resolution
const geomEpsilon = 0.05

type point struct{ x, y float64 }

func (p point) eq(o point) bool {
	return math.Abs(p.x-o.x) < geomEpsilon && math.Abs(p.y-o.y) < geomEpsilon
}

type segment struct {
	from, to point
	curve    bool
}

func classifyGeometry(src *figma.Node) geometry {
	if src.Type != figma.TypeVector || len(src.FillGeometry) != 1 {
		return geometry{}
	}
	return classifyPath(src.FillGeometry[0].Path)
}

// classifyPath decides whether SVG path data describes single closed
// axis-aligned rectangle, optionally with rounded corners. Straight sides
// must alternate between horizontal and vertical, corners may only be
// curves. Corner radius is averaged over curved corners.
func classifyPath(data string) geometry {
	segs, ok := pathSegments(data)
	if !ok || len(segs) == 0 {
		return geometry{}
	}

	var (
		sides   []segment
		corners []segment
	)
	for _, s := range segs {
		switch {
		case s.from.eq(s.to):
			// degenerate
		case s.curve:
			corners = append(corners, s)
		default:
			sides = append(sides, s)
		}
	}
	if len(sides) != 4 || (len(corners) != 0 && len(corners) != 4) {
		return geometry{}
	}

	horizontal := func(s segment) bool { return math.Abs(s.from.y-s.to.y) < geomEpsilon }
	vertical := func(s segment) bool { return math.Abs(s.from.x-s.to.x) < geomEpsilon }
	for i, s := range sides {
		h, v := horizontal(s), vertical(s)
		if h == v {
			return geometry{}
		}
		next := sides[(i+1)%len(sides)]
		if h == horizontal(next) {
			return geometry{}
		}
	}
	// opposite sides must have the same length
	if math.Abs(length(sides[0])-length(sides[2])) > geomEpsilon ||
		math.Abs(length(sides[1])-length(sides[3])) > geomEpsilon {
		return geometry{}
	}

	res := geometry{rectLike: true}
	if len(corners) > 0 {
		var sum float64
		for _, c := range corners {
			sum += math.Min(math.Abs(c.to.x-c.from.x), math.Abs(c.to.y-c.from.y))
		}
		res.radius = sum / float64(len(corners))
	}
	return res
}

func length(s segment) float64 {
	return math.Hypot(s.to.x-s.from.x, s.to.y-s.from.y)
}

// pathSegments compiles path data with oksvg and flattens rasterx path
// commands into segments. Only single closed subpath is accepted, implicit
// closing side is added when needed.
func pathSegments(data string) ([]segment, bool) {
	var pc oksvg.PathCursor
	if err := pc.CompilePath(data); err != nil {
		return nil, false
	}
	path := pc.Path

	var (
		segs       []segment
		start, cur point
		moves      int
		closed     bool
		pt         = func(i int) point { return point{unfix(path[i]), unfix(path[i+1])} }
		appendSeg  = func(to point, curve bool) {
			segs = append(segs, segment{from: cur, to: to, curve: curve})
			cur = to
		}
	)
	for i := 0; i < len(path); {
		switch rasterx.PathCommand(path[i]) {
		case rasterx.PathMoveTo:
			if moves > 0 {
				// second subpath
				return nil, false
			}
			moves++
			start = pt(i + 1)
			cur = start
			i += 3
		case rasterx.PathLineTo:
			appendSeg(pt(i+1), false)
			i += 3
		case rasterx.PathQuadTo:
			appendSeg(pt(i+3), true)
			i += 5
		case rasterx.PathCubicTo:
			appendSeg(pt(i+5), true)
			i += 7
		case rasterx.PathClose:
			if !cur.eq(start) {
				appendSeg(start, false)
			}
			closed = true
			i++
		default:
			return nil, false
		}
	}
	if !closed && (len(segs) == 0 || !cur.eq(start)) {
		return nil, false
	}
	return mergeCollinear(segs), true
}

// mergeCollinear joins consecutive straight segments lying on the same axis
// line, path editors often split sides.
func mergeCollinear(segs []segment) []segment {
	res := make([]segment, 0, len(segs))
	for _, s := range segs {
		if n := len(res); n > 0 && !s.curve && !res[n-1].curve && collinear(res[n-1], s) {
			res[n-1].to = s.to
			continue
		}
		res = append(res, s)
	}
	// last side may continue first one
	if n := len(res); n > 1 && !res[0].curve && !res[n-1].curve && collinear(res[n-1], res[0]) {
		res[0].from = res[n-1].from
		res = res[:n-1]
	}
	return res
}

func collinear(a, b segment) bool {
	if a.from.eq(a.to) || b.from.eq(b.to) {
		return false
	}
	ax, ay := a.to.x-a.from.x, a.to.y-a.from.y
	bx, by := b.to.x-b.from.x, b.to.y-b.from.y
	// same direction, not doubling back
	return math.Abs(ax*by-ay*bx) < geomEpsilon && ax*bx+ay*by > 0
}

func unfix(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
