// Package validation implements the banner QA engine: per-detection ignore
// resolution, copy-zone matching, and deterministic scoring. A validation run
// is a pure function of its inputs; the validator holds only immutable
// options and is safe for concurrent use.
package validation

import (
	"fmt"
	"strings"

	"github.com/arbovm/levenshtein"

	"go-banner-qa/pkg/geometry"
	"go-banner-qa/pkg/models"
)

// ZoneValidator classifies text detections against a zone configuration and
// aggregates the outcomes into a score with itemized infractions.
type ZoneValidator struct {
	opts Options
}

// NewZoneValidator creates a validator with the canonical options.
func NewZoneValidator() *ZoneValidator {
	return &ZoneValidator{opts: DefaultOptions()}
}

// NewZoneValidatorWithOptions creates a validator with custom options.
func NewZoneValidatorWithOptions(opts Options) *ZoneValidator {
	if opts.OverlapThreshold < 0 {
		opts.OverlapThreshold = 0
	}
	if opts.OverlapThreshold > 1 {
		opts.OverlapThreshold = 1
	}
	if opts.IgnoreZonePolicy == "" {
		opts.IgnoreZonePolicy = IgnoreZoneContain
	}
	if opts.Penalties.MaxScore == 0 {
		opts.Penalties = DefaultPenalties()
	}
	return &ZoneValidator{opts: opts}
}

// Options returns the validator's options.
func (v *ZoneValidator) Options() Options {
	return v.opts
}

// Validate runs one validation pass over the supplied detections.
//
// Detections carry pixel-coordinate quads; width and height are the banner
// dimensions used to normalize them against the configuration's 0-1 zones.
// Non-positive dimensions mean the quads are already normalized.
//
// Detections are processed in detector order. Order affects only the
// infraction list ordering, never the score: scoring is a sum of independent
// penalties. Empty inputs never fail; zero zones and zero detections yield a
// perfect score.
func (v *ZoneValidator) Validate(cfg models.Config, detections []models.Detection, width, height int) models.ValidationResult {
	score := v.opts.Penalties.MaxScore
	covered := make(map[string]bool, len(cfg.Zones))
	for _, z := range cfg.Zones {
		covered[z.Name] = false
	}

	result := models.ValidationResult{
		Infractions:  []models.Infraction{},
		Detections:   make([]models.DetectionOutcome, 0, len(detections)),
		CoveredZones: covered,
	}

	for _, det := range detections {
		box := det.Bounds()
		if width > 0 && height > 0 {
			box = box.Normalize(float64(width), float64(height))
		}
		text := strings.TrimSpace(det.Text)

		outcome := models.DetectionOutcome{
			Text:       text,
			Bounds:     box,
			Confidence: det.Confidence,
		}

		if cls, ok := v.resolveIgnore(text, box, cfg); ok {
			outcome.Classification = cls
			outcome.Annotation = ignoreAnnotation(cls)
			result.Detections = append(result.Detections, outcome)
			continue
		}

		if cls, frac, ok := v.matchZone(box, cfg.Zones); ok {
			covered[cls.Zone] = true
			outcome.Classification = cls
			outcome.OverlapFraction = frac
			outcome.Annotation = models.Annotation{Color: models.ColorMatched, Label: cls.Zone}
			result.Detections = append(result.Detections, outcome)
			continue
		}

		outcome.Classification = models.Classification{Kind: models.Unmatched}
		outcome.Annotation = models.Annotation{Color: models.ColorFlagged, Label: "outside zones"}
		result.Detections = append(result.Detections, outcome)

		result.Infractions = append(result.Infractions, models.Infraction{
			Message: fmt.Sprintf("Text outside allowed zones: '%s'", text),
			Penalty: v.opts.Penalties.UnmatchedText,
		})
		score -= v.opts.Penalties.UnmatchedText
	}

	// Coverage pass: every zone left uncovered is an infraction.
	for _, z := range cfg.Zones {
		if covered[z.Name] {
			continue
		}
		result.Infractions = append(result.Infractions, models.Infraction{
			Message: fmt.Sprintf("No text found in %s", z.Name),
			Penalty: v.opts.Penalties.UncoveredZone,
		})
		score -= v.opts.Penalties.UncoveredZone
	}

	if score < 0 {
		score = 0
	}
	result.Score = score
	return result
}

// resolveIgnore applies the ignore rules in fixed priority order: terms
// first, then ignore zones in definition order. Term suppression is a
// content-based editorial override, so it never depends on how zones are
// drawn.
func (v *ZoneValidator) resolveIgnore(text string, box geometry.Rect, cfg models.Config) (models.Classification, bool) {
	lower := strings.ToLower(text)
	for _, term := range cfg.IgnoreTerms {
		if v.termMatches(term, lower) {
			return models.Classification{Kind: models.IgnoredByTerm, Term: term}, true
		}
	}

	for _, iz := range cfg.IgnoreZones {
		if v.insideIgnoreZone(iz.Rect, box) {
			return models.Classification{Kind: models.IgnoredByZone, Zone: iz.Name}, true
		}
	}

	return models.Classification{}, false
}

// termMatches checks substring containment against the lowercased text, and
// optionally a per-token Levenshtein distance when fuzzy matching is enabled.
func (v *ZoneValidator) termMatches(term, lowerText string) bool {
	if term == "" {
		return false
	}
	if strings.Contains(lowerText, term) {
		return true
	}
	if v.opts.MaxTermDistance <= 0 {
		return false
	}
	for _, token := range strings.Fields(lowerText) {
		if levenshtein.Distance(token, term) <= v.opts.MaxTermDistance {
			return true
		}
	}
	return false
}

func (v *ZoneValidator) insideIgnoreZone(zone, box geometry.Rect) bool {
	switch v.opts.IgnoreZonePolicy {
	case IgnoreZoneCorner:
		return geometry.ContainsPoint(zone, geometry.Point{X: box.X, Y: box.Y})
	default:
		return geometry.Contains(zone, box)
	}
}

// matchZone finds the first zone, in definition order, whose overlap fraction
// meets the threshold. First qualifying zone wins; there is no best-match
// search.
func (v *ZoneValidator) matchZone(box geometry.Rect, zones []models.Zone) (models.Classification, float64, bool) {
	for _, z := range zones {
		frac := geometry.OverlapFraction(box, z.Rect)
		if frac >= v.opts.OverlapThreshold && frac > 0 {
			return models.Classification{Kind: models.MatchedZone, Zone: z.Name}, frac, true
		}
	}
	return models.Classification{}, 0, false
}

func ignoreAnnotation(cls models.Classification) models.Annotation {
	label := cls.Term
	if cls.Kind == models.IgnoredByZone {
		label = cls.Zone
	}
	return models.Annotation{Color: models.ColorIgnored, Label: label}
}
