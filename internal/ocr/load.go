package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// canvasMargin is the blank border around fitted strokes
const canvasMargin = 20

// RasterizeFit draws strokes on a canvas just large enough to hold them
func RasterizeFit(strokes []Stroke) (image.Image, error) {
	if err := checkStrokes(strokes); err != nil {
		return nil, err
	}
	var maxX, maxY float64
	for _, s := range strokes {
		for _, p := range s.Points {
			maxX = math.Max(maxX, p.X+s.Width)
			maxY = math.Max(maxY, p.Y+s.Width)
		}
	}
	w, h := math.Ceil(maxX)+canvasMargin, math.Ceil(maxY)+canvasMargin
	if w > MaxCanvas || h > MaxCanvas {
		return nil, ErrCanvasTooLarge
	}
	return Rasterize(strokes, int(w), int(h))
}

// LoadImage reads a PNG or JPEG image, or a JSON stroke file (.json) which
// is rasterized
func LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		strokes, err := ParseStrokes(data)
		if err != nil {
			return nil, err
		}
		return RasterizeFit(strokes)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
