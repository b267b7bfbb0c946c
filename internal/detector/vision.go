package detector

import (
	"context"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	apperrors "go-banner-qa/internal/errors"
	"go-banner-qa/pkg/geometry"
	"go-banner-qa/pkg/models"
)

// VisionDetector performs text detection using the Google Cloud Vision API.
// Credentials come from Application Default Credentials.
type VisionDetector struct {
	client *gvision.ImageAnnotatorClient
}

// Compile-time check that VisionDetector implements TextDetector.
var _ TextDetector = (*VisionDetector)(nil)

// NewVisionDetector creates a Vision-backed text detector using ADC.
func NewVisionDetector(ctx context.Context) (*VisionDetector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, apperrors.NewDetectorError("failed to create vision client", err)
	}
	return &VisionDetector{client: client}, nil
}

// Name returns the detector backend identifier.
func (d *VisionDetector) Name() string {
	return "vision"
}

// Close releases the Vision API client.
func (d *VisionDetector) Close() error {
	return d.client.Close()
}

// DetectText runs Vision TEXT_DETECTION on the encoded image. The first
// annotation covers the whole recognized block and is skipped; the rest are
// per-word annotations with bounding polygons in pixel coordinates.
func (d *VisionDetector) DetectText(ctx context.Context, imageData []byte) ([]models.Detection, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := d.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, apperrors.NewDetectorError("vision API request failed", err)
	}

	if len(resp.Responses) == 0 {
		return nil, nil
	}
	if resp.Responses[0].Error != nil {
		return nil, apperrors.NewDetectorError("vision API error: "+resp.Responses[0].Error.Message, nil)
	}

	annotations := resp.Responses[0].TextAnnotations
	if len(annotations) <= 1 {
		return nil, nil
	}

	detections := make([]models.Detection, 0, len(annotations)-1)
	for _, ann := range annotations[1:] {
		quad, ok := quadFromPoly(ann.BoundingPoly)
		if !ok || ann.Description == "" {
			continue
		}
		confidence := float64(ann.Confidence)
		if confidence == 0 {
			// TEXT_DETECTION does not populate per-word confidence.
			confidence = 1.0
		}
		detections = append(detections, models.Detection{
			Text:       ann.Description,
			Confidence: confidence,
			Quad:       quad,
		})
	}

	return detections, nil
}

// quadFromPoly converts a Vision bounding polygon to a four-corner quad.
func quadFromPoly(poly *visionpb.BoundingPoly) ([4]geometry.Point, bool) {
	if poly == nil || len(poly.Vertices) != 4 {
		return [4]geometry.Point{}, false
	}
	var quad [4]geometry.Point
	for i, v := range poly.Vertices {
		quad[i] = geometry.Point{X: float64(v.X), Y: float64(v.Y)}
	}
	return quad, true
}
