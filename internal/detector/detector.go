package detector

import (
	"context"

	"go-banner-qa/pkg/geometry"
	"go-banner-qa/pkg/models"
)

// TextDetector extracts word-level text detections from encoded image data.
// Detections are reported in pixel coordinates of the source image.
type TextDetector interface {
	DetectText(ctx context.Context, imageData []byte) ([]models.Detection, error)
	Name() string
	Close() error
}

// quadFromBox builds an axis-aligned quad from pixel box corners, ordered
// top-left, top-right, bottom-right, bottom-left.
func quadFromBox(x1, y1, x2, y2 float64) [4]geometry.Point {
	return [4]geometry.Point{
		{X: x1, Y: y1},
		{X: x2, Y: y1},
		{X: x2, Y: y2},
		{X: x1, Y: y2},
	}
}
