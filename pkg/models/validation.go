package models

import (
	"go-banner-qa/pkg/geometry"
)

// Detection is one text region produced by the external detector for a single
// run. Detections are ephemeral: recomputed every validation run, never
// persisted.
type Detection struct {
	// Quad holds the four corner points of the detected region, in pixel
	// coordinates. Not axis-aligned in general.
	Quad [4]geometry.Point `json:"quad"`

	// Text is the raw recognized text.
	Text string `json:"text"`

	// Confidence is the detector's recognition confidence (0.0-1.0). It is
	// passed through to the result but unused by scoring.
	Confidence float64 `json:"confidence"`
}

// Bounds returns the detection's axis-aligned bounding rectangle.
func (d Detection) Bounds() geometry.Rect {
	return geometry.BoundingRect(d.Quad)
}

// ClassificationKind enumerates the possible outcomes for one detection.
// Every detection yields exactly one classification per run.
type ClassificationKind string

const (
	// IgnoredByTerm marks a detection suppressed by an ignore-term match.
	IgnoredByTerm ClassificationKind = "ignored_by_term"
	// IgnoredByZone marks a detection suppressed by an ignore zone.
	IgnoredByZone ClassificationKind = "ignored_by_zone"
	// MatchedZone marks a detection that counts as inside a copy zone.
	MatchedZone ClassificationKind = "matched_zone"
	// Unmatched marks a detection outside every copy zone.
	Unmatched ClassificationKind = "unmatched"
)

// Classification records why a detection was suppressed, matched, or flagged.
type Classification struct {
	Kind ClassificationKind `json:"kind"`

	// Zone is the matched copy zone name (MatchedZone) or the suppressing
	// ignore zone name (IgnoredByZone).
	Zone string `json:"zone,omitempty"`

	// Term is the ignore term that suppressed the detection (IgnoredByTerm).
	Term string `json:"term,omitempty"`
}

// Annotation is the payload the presentation layer needs to draw one
// detection: an outline color and a short label. The engine emits it; it
// never draws.
type Annotation struct {
	Color string `json:"color"`
	Label string `json:"label,omitempty"`
}

// Overlay colors, matching the editor UI conventions: zones are outlined
// green, ignored detections blue, unmatched detections red.
const (
	ColorMatched = "green"
	ColorIgnored = "blue"
	ColorFlagged = "red"
)

// DetectionOutcome pairs a detection with its classification and annotation.
type DetectionOutcome struct {
	Text            string             `json:"text"`
	Bounds          geometry.Rect      `json:"bounds"`
	Confidence      float64            `json:"confidence"`
	Classification  Classification     `json:"classification"`
	Annotation      Annotation         `json:"annotation"`
	OverlapFraction float64            `json:"overlap_fraction,omitempty"`
}

// Infraction is a scored violation with its point penalty.
type Infraction struct {
	Message string `json:"message"`
	Penalty int    `json:"penalty"`
}

// ValidationResult is the outcome of one validation run. Invariant: the sum
// of applied penalties equals MaxScore minus Score, clamped at zero.
type ValidationResult struct {
	Score       int                `json:"score"`
	Infractions []Infraction       `json:"infractions"`
	Detections  []DetectionOutcome `json:"detections"`

	// CoveredZones maps each configured zone name to whether any detection
	// matched it during the run.
	CoveredZones map[string]bool `json:"covered_zones"`

	// Warnings carries non-scoring advisories (e.g. aspect ratio).
	Warnings []string `json:"warnings,omitempty"`
}

// Perfect reports whether the run produced no infractions.
func (r ValidationResult) Perfect() bool {
	return len(r.Infractions) == 0
}

// TotalPenalty returns the sum of all infraction penalties.
func (r ValidationResult) TotalPenalty() int {
	total := 0
	for _, inf := range r.Infractions {
		total += inf.Penalty
	}
	return total
}
