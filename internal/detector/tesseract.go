package detector

import (
	"context"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"

	apperrors "go-banner-qa/internal/errors"
	"go-banner-qa/pkg/models"
)

// TesseractDetector performs word-level OCR using the Tesseract engine via
// gosseract. Each call uses a fresh client: gosseract clients are not safe
// for concurrent use.
type TesseractDetector struct {
	language string
}

// NewTesseractDetector creates a Tesseract-backed text detector.
func NewTesseractDetector(language string) *TesseractDetector {
	if language == "" {
		language = "eng"
	}
	return &TesseractDetector{language: language}
}

// Name returns the detector backend identifier.
func (d *TesseractDetector) Name() string {
	return "tesseract"
}

// Close releases detector resources. Tesseract clients are per-call, so
// there is nothing to release here.
func (d *TesseractDetector) Close() error {
	return nil
}

// DetectText runs OCR on the encoded image and returns one detection per
// recognized word with its pixel-space bounding quad.
func (d *TesseractDetector) DetectText(ctx context.Context, imageData []byte) ([]models.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// gosseract reads images from disk, so stage the bytes in a temp file.
	tmp, err := os.CreateTemp("", "banner-ocr-*.img")
	if err != nil {
		return nil, apperrors.NewDetectorError("failed to stage image for OCR", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		return nil, apperrors.NewDetectorError("failed to stage image for OCR", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, apperrors.NewDetectorError("failed to stage image for OCR", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(tmpPath); err != nil {
		return nil, apperrors.NewDetectorError("failed to load image into OCR engine", err)
	}
	if err := client.SetLanguage(d.language); err != nil {
		return nil, apperrors.NewDetectorError("failed to configure OCR language", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, apperrors.NewDetectorError("OCR failed", err)
	}

	detections := make([]models.Detection, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		detections = append(detections, models.Detection{
			Text:       word,
			Confidence: box.Confidence / 100.0,
			Quad: quadFromBox(
				float64(box.Box.Min.X), float64(box.Box.Min.Y),
				float64(box.Box.Max.X), float64(box.Box.Max.Y),
			),
		})
	}

	return detections, nil
}
