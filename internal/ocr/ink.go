package ocr

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// MaxCanvas bounds both sides of a rasterized canvas in pixels
const MaxCanvas = 4096

// maxStrokeWidth bounds the pen width of a single stroke
const maxStrokeWidth = 256

// defaultStrokeWidth is used for strokes recorded without a width
const defaultStrokeWidth = 3

// ErrCanvasTooLarge is returned when strokes do not fit a MaxCanvas square
var ErrCanvasTooLarge = fmt.Errorf("canvas larger than %dx%d", MaxCanvas, MaxCanvas)

// Point is a pen position in canvas pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pen movement
type Stroke struct {
	Points []Point `json:"points"`
	Width  float64 `json:"width,omitempty"`
}

// ParseStrokes decodes a JSON array of strokes
func ParseStrokes(data []byte) ([]Stroke, error) {
	var strokes []Stroke
	if err := json.Unmarshal(data, &strokes); err != nil {
		return nil, fmt.Errorf("parse strokes: %w", err)
	}
	return strokes, nil
}

// Rasterize draws strokes in black on a white w×h canvas. Points may lie
// off the canvas but not further than MaxCanvas from it.
func Rasterize(strokes []Stroke, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}
	if w > MaxCanvas || h > MaxCanvas {
		return nil, ErrCanvasTooLarge
	}
	if err := checkStrokes(strokes); err != nil {
		return nil, err
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, s := range strokes {
		width := strokeWidth(s)
		switch len(s.Points) {
		case 0:
			continue
		case 1:
			dc.DrawCircle(s.Points[0].X, s.Points[0].Y, width/2)
			dc.Fill()
		default:
			dc.SetLineWidth(width)
			dc.MoveTo(s.Points[0].X, s.Points[0].Y)
			for _, p := range s.Points[1:] {
				dc.LineTo(p.X, p.Y)
			}
			dc.Stroke()
		}
	}
	return dc.Image(), nil
}

func strokeWidth(s Stroke) float64 {
	if s.Width < 2 {
		return defaultStrokeWidth
	}
	return s.Width
}

func checkStrokes(strokes []Stroke) error {
	for _, s := range strokes {
		if math.IsNaN(s.Width) || s.Width > maxStrokeWidth {
			return fmt.Errorf("stroke width %g out of range", s.Width)
		}
		for _, p := range s.Points {
			if !inRange(p.X) || !inRange(p.Y) {
				return fmt.Errorf("point (%g, %g): %w", p.X, p.Y, ErrCanvasTooLarge)
			}
		}
	}
	return nil
}

func inRange(v float64) bool {
	return !math.IsNaN(v) && v >= -MaxCanvas && v <= 2*MaxCanvas
}
