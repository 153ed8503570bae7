// Package images measures downloaded assets and converts vector exports into
// raster images for targets which can not display SVG.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// fallbackSVGSize is used when SVG has neither size nor usable viewBox.
const fallbackSVGSize = 512

// maxRasterDim limits any side of rasterized image, huge viewBox values
// would otherwise allocate gigabytes for RGBA buffer.
var maxRasterDim = 8192

// RasterizeSVGToImage renders SVG into transparent RGBA image.
//
// Target size rules:
//   - both zero: intrinsic viewBox size
//   - one of them set: scale by that side keeping aspect ratio
//   - both set: fit into the box keeping aspect ratio
func RasterizeSVGToImage(svgData []byte, targetW, targetH int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("unable to parse svg: %w", err)
	}

	iw, ih := int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H))
	if iw <= 0 || ih <= 0 {
		if w, h, err := SVGDimensions(svgData); err == nil && w > 0 && h > 0 {
			iw, ih = w, h
		} else {
			iw, ih = fallbackSVGSize, fallbackSVGSize
		}
	}

	w, h := fitSize(iw, ih, targetW, targetH)
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return dst, nil
}

func fitSize(iw, ih, targetW, targetH int) (int, int) {
	w, h := iw, ih
	switch {
	case targetW <= 0 && targetH <= 0:
	case targetH <= 0:
		w = targetW
		h = int(math.Round(float64(w) * float64(ih) / float64(iw)))
	case targetW <= 0:
		h = targetH
		w = int(math.Round(float64(h) * float64(iw) / float64(ih)))
	default:
		s := min(float64(targetW)/float64(iw), float64(targetH)/float64(ih))
		w = int(math.Round(float64(iw) * s))
		h = int(math.Round(float64(ih) * s))
	}
	w, h = max(w, 1), max(h, 1)

	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}
	return w, h
}

// RasterizeSVGToPNG renders SVG and encodes result as PNG. Width 0 keeps
// intrinsic size.
func RasterizeSVGToPNG(svgData []byte, width int) ([]byte, error) {
	img, err := RasterizeSVGToImage(svgData, width, 0)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("unable to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
