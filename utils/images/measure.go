package images

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	// registering decoders for formats design API and CDNs may return
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnknownFormat is returned when content is neither SVG nor decodable
// raster image.
var ErrUnknownFormat = errors.New("unknown image format")

// MimeSVG is reported for vector content, filetype does not recognize it.
const MimeSVG = "image/svg+xml"

// DetectMime returns mime type of the content or empty string.
func DetectMime(data []byte) string {
	if IsSVG(data) {
		return MimeSVG
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return ""
}

// DetectExt returns file extension (without dot) matching content or empty
// string.
func DetectExt(data []byte) string {
	if IsSVG(data) {
		return "svg"
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.Extension
	}
	return ""
}

// IsSVG sniffs for svg root element in the first kilobytes of data.
func IsSVG(data []byte) bool {
	head := data[:min(len(data), 4096)]
	head = bytes.TrimLeft(head, "\xef\xbb\xbf \t\r\n")
	if !bytes.HasPrefix(head, []byte("<")) {
		return false
	}
	return bytes.Contains(head, []byte("<svg"))
}

// Dimensions returns pixel size of image content. Raster images are decoded
// with EXIF orientation applied so reported size matches what browser shows.
func Dimensions(data []byte) (int, int, error) {
	if IsSVG(data) {
		return SVGDimensions(data)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrUnknownFormat, err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// SVGDimensions reads size of SVG document from width and height attributes
// of the root element, falling back to viewBox. Relative units are ignored.
func SVGDimensions(data []byte) (int, int, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return 0, 0, fmt.Errorf("unable to parse svg: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return 0, 0, fmt.Errorf("%w: no svg root element", ErrUnknownFormat)
	}

	w, wok := svgLength(root.SelectAttrValue("width", ""))
	h, hok := svgLength(root.SelectAttrValue("height", ""))
	if wok && hok {
		return w, h, nil
	}

	vb := strings.FieldsFunc(root.SelectAttrValue("viewBox", ""), func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(vb) == 4 {
		vw, err1 := strconv.ParseFloat(vb[2], 64)
		vh, err2 := strconv.ParseFloat(vb[3], 64)
		if err1 == nil && err2 == nil && vw > 0 && vh > 0 {
			switch {
			case wok:
				h = int(math.Round(float64(w) * vh / vw))
			case hok:
				w = int(math.Round(float64(h) * vw / vh))
			default:
				w, h = int(math.Ceil(vw)), int(math.Ceil(vh))
			}
			return w, h, nil
		}
	}
	return 0, 0, fmt.Errorf("svg has no usable size")
}

func svgLength(v string) (int, bool) {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "px")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(math.Round(f)), true
}
