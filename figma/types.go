// Package figma contains design API data model and HTTP client. Only fields
// conversion relies on are described, everything else in API responses is
// ignored on decoding.
package figma

import "time"

// Node types.
const (
	TypeDocument       = "DOCUMENT"
	TypeCanvas         = "CANVAS"
	TypeFrame          = "FRAME"
	TypeGroup          = "GROUP"
	TypeSection        = "SECTION"
	TypeComponent      = "COMPONENT"
	TypeComponentSet   = "COMPONENT_SET"
	TypeInstance       = "INSTANCE"
	TypeVector         = "VECTOR"
	TypeBooleanOp      = "BOOLEAN_OPERATION"
	TypeStar           = "STAR"
	TypeLine           = "LINE"
	TypeEllipse        = "ELLIPSE"
	TypeRegularPolygon = "REGULAR_POLYGON"
	TypeRectangle      = "RECTANGLE"
	TypeText           = "TEXT"
	TypeSlice          = "SLICE"
)

// Paint types.
const (
	PaintSolid           = "SOLID"
	PaintGradientLinear  = "GRADIENT_LINEAR"
	PaintGradientRadial  = "GRADIENT_RADIAL"
	PaintGradientAngular = "GRADIENT_ANGULAR"
	PaintGradientDiamond = "GRADIENT_DIAMOND"
	PaintImage           = "IMAGE"
	PaintEmoji           = "EMOJI"
	PaintVideo           = "VIDEO"
)

// Effect types.
const (
	EffectDropShadow     = "DROP_SHADOW"
	EffectInnerShadow    = "INNER_SHADOW"
	EffectLayerBlur      = "LAYER_BLUR"
	EffectBackgroundBlur = "BACKGROUND_BLUR"
)

// Layout modes.
const (
	LayoutNone       = "NONE"
	LayoutHorizontal = "HORIZONTAL"
	LayoutVertical   = "VERTICAL"
	LayoutGrid       = "GRID"
)

type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Transform is 2x3 affine matrix [[a c tx] [b d ty]].
type Transform [2][3]float64

type ColorStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

type Paint struct {
	Type      string   `json:"type"`
	Visible   *bool    `json:"visible,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty"`
	BlendMode string   `json:"blendMode,omitempty"`

	Color *Color `json:"color,omitempty"`

	GradientHandlePositions []Vector    `json:"gradientHandlePositions,omitempty"`
	GradientStops           []ColorStop `json:"gradientStops,omitempty"`

	ScaleMode      string     `json:"scaleMode,omitempty"`
	ImageRef       string     `json:"imageRef,omitempty"`
	ScalingFactor  float64    `json:"scalingFactor,omitempty"`
	Rotation       float64    `json:"rotation,omitempty"`
	ImageTransform *Transform `json:"imageTransform,omitempty"`
}

// IsVisible reports paint visibility, absent flag means visible.
func (p *Paint) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// Alpha returns paint opacity, absent means fully opaque.
func (p *Paint) Alpha() float64 {
	if p.Opacity == nil {
		return 1
	}
	return *p.Opacity
}

type Effect struct {
	Type      string  `json:"type"`
	Visible   *bool   `json:"visible,omitempty"`
	Radius    float64 `json:"radius"`
	Color     *Color  `json:"color,omitempty"`
	BlendMode string  `json:"blendMode,omitempty"`
	Offset    *Vector `json:"offset,omitempty"`
	Spread    float64 `json:"spread,omitempty"`
}

// IsVisible reports effect visibility, absent flag means visible.
func (e *Effect) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

type Hyperlink struct {
	Type   string `json:"type"`
	URL    string `json:"url,omitempty"`
	NodeID string `json:"nodeID,omitempty"`
}

type TypeStyle struct {
	FontFamily                string     `json:"fontFamily,omitempty"`
	FontPostScriptName        string     `json:"fontPostScriptName,omitempty"`
	FontWeight                float64    `json:"fontWeight,omitempty"`
	FontSize                  float64    `json:"fontSize,omitempty"`
	Italic                    bool       `json:"italic,omitempty"`
	TextCase                  string     `json:"textCase,omitempty"`
	TextDecoration            string     `json:"textDecoration,omitempty"`
	TextAutoResize            string     `json:"textAutoResize,omitempty"`
	TextTruncation            string     `json:"textTruncation,omitempty"`
	MaxLines                  int        `json:"maxLines,omitempty"`
	TextAlignHorizontal       string     `json:"textAlignHorizontal,omitempty"`
	TextAlignVertical         string     `json:"textAlignVertical,omitempty"`
	LetterSpacing             float64    `json:"letterSpacing,omitempty"`
	LineHeightPx              float64    `json:"lineHeightPx,omitempty"`
	LineHeightPercentFontSize float64    `json:"lineHeightPercentFontSize,omitempty"`
	LineHeightUnit            string     `json:"lineHeightUnit,omitempty"`
	ParagraphSpacing          float64    `json:"paragraphSpacing,omitempty"`
	ParagraphIndent           float64    `json:"paragraphIndent,omitempty"`
	Hyperlink                 *Hyperlink `json:"hyperlink,omitempty"`
	Fills                     []Paint    `json:"fills,omitempty"`
}

type Path struct {
	Path        string `json:"path"`
	WindingRule string `json:"windingRule,omitempty"`
}

type LayoutConstraint struct {
	Vertical   string `json:"vertical"`
	Horizontal string `json:"horizontal"`
}

type StrokeWeights struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type ExportSetting struct {
	Suffix string `json:"suffix,omitempty"`
	Format string `json:"format"`
}

// Node is a scene node as returned by design API. It is never modified by
// conversion.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Visible  *bool   `json:"visible,omitempty"`
	Children []*Node `json:"children,omitempty"`

	AbsoluteBoundingBox *Rectangle `json:"absoluteBoundingBox,omitempty"`
	RelativeTransform   *Transform `json:"relativeTransform,omitempty"`
	Size                *Vector    `json:"size,omitempty"`
	Rotation            float64    `json:"rotation,omitempty"`

	Fills                   []Paint         `json:"fills,omitempty"`
	Strokes                 []Paint         `json:"strokes,omitempty"`
	StrokeWeight            float64         `json:"strokeWeight,omitempty"`
	IndividualStrokeWeights *StrokeWeights  `json:"individualStrokeWeights,omitempty"`
	StrokeAlign             string          `json:"strokeAlign,omitempty"`
	StrokeDashes            []float64       `json:"strokeDashes,omitempty"`
	CornerRadius            float64         `json:"cornerRadius,omitempty"`
	RectangleCornerRadii    []float64       `json:"rectangleCornerRadii,omitempty"`
	Effects                 []Effect        `json:"effects,omitempty"`
	Opacity                 *float64        `json:"opacity,omitempty"`
	BlendMode               string          `json:"blendMode,omitempty"`
	IsMask                  bool            `json:"isMask,omitempty"`
	ClipsContent            bool            `json:"clipsContent,omitempty"`
	FillGeometry            []Path          `json:"fillGeometry,omitempty"`
	StrokeGeometry          []Path          `json:"strokeGeometry,omitempty"`
	ExportSettings          []ExportSetting `json:"exportSettings,omitempty"`

	LayoutMode              string            `json:"layoutMode,omitempty"`
	LayoutWrap              string            `json:"layoutWrap,omitempty"`
	PrimaryAxisAlignItems   string            `json:"primaryAxisAlignItems,omitempty"`
	CounterAxisAlignItems   string            `json:"counterAxisAlignItems,omitempty"`
	CounterAxisAlignContent string            `json:"counterAxisAlignContent,omitempty"`
	PrimaryAxisSizingMode   string            `json:"primaryAxisSizingMode,omitempty"`
	CounterAxisSizingMode   string            `json:"counterAxisSizingMode,omitempty"`
	ItemSpacing             float64           `json:"itemSpacing,omitempty"`
	CounterAxisSpacing      float64           `json:"counterAxisSpacing,omitempty"`
	PaddingLeft             float64           `json:"paddingLeft,omitempty"`
	PaddingRight            float64           `json:"paddingRight,omitempty"`
	PaddingTop              float64           `json:"paddingTop,omitempty"`
	PaddingBottom           float64           `json:"paddingBottom,omitempty"`
	ItemReverseZIndex       bool              `json:"itemReverseZIndex,omitempty"`
	LayoutPositioning       string            `json:"layoutPositioning,omitempty"`
	LayoutAlign             string            `json:"layoutAlign,omitempty"`
	LayoutGrow              float64           `json:"layoutGrow,omitempty"`
	LayoutSizingHorizontal  string            `json:"layoutSizingHorizontal,omitempty"`
	LayoutSizingVertical    string            `json:"layoutSizingVertical,omitempty"`
	Constraints             *LayoutConstraint `json:"constraints,omitempty"`
	MinWidth                *float64          `json:"minWidth,omitempty"`
	MaxWidth                *float64          `json:"maxWidth,omitempty"`
	MinHeight               *float64          `json:"minHeight,omitempty"`
	MaxHeight               *float64          `json:"maxHeight,omitempty"`
	ScrollBehavior          string            `json:"scrollBehavior,omitempty"`
	IsFixed                 bool              `json:"isFixed,omitempty"`

	GridRowCount          int     `json:"gridRowCount,omitempty"`
	GridColumnCount       int     `json:"gridColumnCount,omitempty"`
	GridRowGap            float64 `json:"gridRowGap,omitempty"`
	GridColumnGap         float64 `json:"gridColumnGap,omitempty"`
	GridRowAnchorIndex    int     `json:"gridRowAnchorIndex,omitempty"`
	GridColumnAnchorIndex int     `json:"gridColumnAnchorIndex,omitempty"`
	GridRowSpan           int     `json:"gridRowSpan,omitempty"`
	GridColumnSpan        int     `json:"gridColumnSpan,omitempty"`

	Characters              string               `json:"characters,omitempty"`
	Style                   *TypeStyle           `json:"style,omitempty"`
	CharacterStyleOverrides []int                `json:"characterStyleOverrides,omitempty"`
	StyleOverrideTable      map[string]TypeStyle `json:"styleOverrideTable,omitempty"`
}

// IsVisible reports node visibility, absent flag means visible.
func (n *Node) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// NodeEntry is single requested subtree in batch nodes response.
type NodeEntry struct {
	Document *Node `json:"document"`
}

// NodesResponse is batch API response for requested node ids. Entry is nil
// when requested node does not exist.
type NodesResponse struct {
	Name         string                `json:"name"`
	LastModified time.Time             `json:"lastModified"`
	Version      string                `json:"version,omitempty"`
	ThumbnailURL string                `json:"thumbnailUrl,omitempty"`
	Nodes        map[string]*NodeEntry `json:"nodes"`
}

type imagesResponse struct {
	Err    *string           `json:"err"`
	Images map[string]string `json:"images"`
}

type imageFillsResponse struct {
	Error  bool `json:"error"`
	Status int  `json:"status"`
	Meta   struct {
		Images map[string]string `json:"images"`
	} `json:"meta"`
}

type errorResponse struct {
	Status int    `json:"status"`
	Err    string `json:"err"`
}
