package convert

import (
	"domx/figma"
)

// paints keeps visible fills, strokes and effects of a node sorted by kind.
// Order inside each list is paint stack order, topmost is last.
type paints struct {
	solid  []*figma.Paint
	images []*figma.Paint
	linear []*figma.Paint
	radial []*figma.Paint
	conic  []*figma.Paint
	// all visible fills in original order
	fills []*figma.Paint

	strokes []*figma.Paint

	dropShadows    []*figma.Effect
	innerShadows   []*figma.Effect
	layerBlurs     []*figma.Effect
	backgroundBlur []*figma.Effect
}

func classifyPaints(src *figma.Node) paints {
	return classifyPaintList(src.Fills, src.Strokes, src.Effects)
}

func classifyPaintList(fills, strokes []figma.Paint, effects []figma.Effect) paints {
	var p paints
	for i := range fills {
		f := &fills[i]
		if !f.IsVisible() {
			continue
		}
		p.fills = append(p.fills, f)
		switch f.Type {
		case figma.PaintSolid:
			p.solid = append(p.solid, f)
		case figma.PaintImage:
			p.images = append(p.images, f)
		case figma.PaintGradientLinear:
			p.linear = append(p.linear, f)
		case figma.PaintGradientRadial:
			p.radial = append(p.radial, f)
		case figma.PaintGradientAngular:
			p.conic = append(p.conic, f)
		}
	}
	for i := range strokes {
		if s := &strokes[i]; s.IsVisible() {
			p.strokes = append(p.strokes, s)
		}
	}
	for i := range effects {
		e := &effects[i]
		if !e.IsVisible() {
			continue
		}
		switch e.Type {
		case figma.EffectDropShadow:
			p.dropShadows = append(p.dropShadows, e)
		case figma.EffectInnerShadow:
			p.innerShadows = append(p.innerShadows, e)
		case figma.EffectLayerBlur:
			p.layerBlurs = append(p.layerBlurs, e)
		case figma.EffectBackgroundBlur:
			p.backgroundBlur = append(p.backgroundBlur, e)
		}
	}
	return p
}

// gradients returns fills of gradient kinds in fixed emission order: linear,
// radial, conic.
func (p *paints) gradients() []*figma.Paint {
	res := make([]*figma.Paint, 0, len(p.linear)+len(p.radial)+len(p.conic))
	res = append(res, p.linear...)
	res = append(res, p.radial...)
	res = append(res, p.conic...)
	return res
}

// renderableGradients returns gradients which have at least two stops.
func (p *paints) renderableGradients() []*figma.Paint {
	var res []*figma.Paint
	for _, g := range p.gradients() {
		if len(g.GradientStops) >= 2 {
			res = append(res, g)
		}
	}
	return res
}

// hasRenderableGradient reports whether any fill is a gradient with 2+ stops.
func (p *paints) hasRenderableGradient() bool {
	return len(p.renderableGradients()) > 0
}

// topStroke returns topmost visible stroke paint.
func (p *paints) topStroke() *figma.Paint {
	if len(p.strokes) == 0 {
		return nil
	}
	return p.strokes[len(p.strokes)-1]
}

// lastSolid returns topmost visible solid fill.
func (p *paints) lastSolid() *figma.Paint {
	if len(p.solid) == 0 {
		return nil
	}
	return p.solid[len(p.solid)-1]
}

func isGradient(t string) bool {
	switch t {
	case figma.PaintGradientLinear, figma.PaintGradientRadial, figma.PaintGradientAngular, figma.PaintGradientDiamond:
		return true
	}
	return false
}
