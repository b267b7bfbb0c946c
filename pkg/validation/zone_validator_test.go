package validation

import (
	"strings"
	"testing"

	"go-banner-qa/pkg/geometry"
	"go-banner-qa/pkg/models"
)

// quadAt builds an axis-aligned detection quad in normalized coordinates.
func quadAt(x, y, w, h float64) [4]geometry.Point {
	return [4]geometry.Point{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

func detection(text string, x, y, w, h float64) models.Detection {
	return models.Detection{Quad: quadAt(x, y, w, h), Text: text, Confidence: 0.9}
}

func singleZoneConfig() models.Config {
	return models.Config{
		Zones: []models.Zone{
			{Name: "A", Rect: geometry.Rect{X: 0, Y: 0, W: 0.5, H: 0.5}},
		},
	}
}

func TestNewZoneValidator(t *testing.T) {
	v := NewZoneValidator()
	if v == nil {
		t.Fatal("Expected non-nil zone validator")
	}
	if v.Options().OverlapThreshold != 0.8 {
		t.Errorf("Expected default threshold 0.8, got %f", v.Options().OverlapThreshold)
	}
	if v.Options().Penalties != DefaultPenalties() {
		t.Errorf("Expected default penalties, got %+v", v.Options().Penalties)
	}
}

func TestNewZoneValidatorWithOptions_ClampsThreshold(t *testing.T) {
	v := NewZoneValidatorWithOptions(Options{OverlapThreshold: 1.7, Penalties: DefaultPenalties()})
	if v.Options().OverlapThreshold != 1.0 {
		t.Errorf("Expected threshold clamped to 1.0, got %f", v.Options().OverlapThreshold)
	}
	if v.Options().IgnoreZonePolicy != IgnoreZoneContain {
		t.Errorf("Expected default ignore-zone policy, got %s", v.Options().IgnoreZonePolicy)
	}
}

func TestValidate_DetectionFullyInsideZone(t *testing.T) {
	// Zone A at (0,0,0.5,0.5), threshold 0.8, detection box (0,0,0.4,0.4):
	// overlap fraction 1.0, score 100, zero infractions.
	v := NewZoneValidator()
	result := v.Validate(singleZoneConfig(), []models.Detection{
		detection("SALE NOW ON", 0, 0, 0.4, 0.4),
	}, 0, 0)

	if result.Score != 100 {
		t.Errorf("Expected score 100, got %d", result.Score)
	}
	if len(result.Infractions) != 0 {
		t.Errorf("Expected zero infractions, got %v", result.Infractions)
	}
	if !result.CoveredZones["A"] {
		t.Error("Expected zone A to be covered")
	}
	out := result.Detections[0]
	if out.Classification.Kind != models.MatchedZone || out.Classification.Zone != "A" {
		t.Errorf("Expected matched_zone A, got %+v", out.Classification)
	}
	if out.OverlapFraction != 1.0 {
		t.Errorf("Expected overlap fraction 1.0, got %f", out.OverlapFraction)
	}
	if out.Annotation.Color != models.ColorMatched {
		t.Errorf("Expected green annotation, got %s", out.Annotation.Color)
	}
}

func TestValidate_DetectionOutsideZone(t *testing.T) {
	// Same zone, detection at (0.6,0.6,0.3,0.3): one unmatched infraction
	// (-20) plus one uncovered-zone infraction (-10), score 70.
	v := NewZoneValidator()
	result := v.Validate(singleZoneConfig(), []models.Detection{
		detection("stray text", 0.6, 0.6, 0.3, 0.3),
	}, 0, 0)

	if result.Score != 70 {
		t.Errorf("Expected score 70, got %d", result.Score)
	}
	if len(result.Infractions) != 2 {
		t.Fatalf("Expected 2 infractions, got %d: %v", len(result.Infractions), result.Infractions)
	}
	if !strings.Contains(result.Infractions[0].Message, "Text outside allowed zones: 'stray text'") {
		t.Errorf("Unexpected first infraction: %q", result.Infractions[0].Message)
	}
	if result.Infractions[0].Penalty != 20 {
		t.Errorf("Expected penalty 20, got %d", result.Infractions[0].Penalty)
	}
	if result.Infractions[1].Message != "No text found in A" {
		t.Errorf("Unexpected second infraction: %q", result.Infractions[1].Message)
	}
	if result.Infractions[1].Penalty != 10 {
		t.Errorf("Expected penalty 10, got %d", result.Infractions[1].Penalty)
	}
	if result.Detections[0].Annotation.Color != models.ColorFlagged {
		t.Errorf("Expected red annotation, got %s", result.Detections[0].Annotation.Color)
	}
}

func TestValidate_EmptyDetectionsPenalizeEveryZone(t *testing.T) {
	tests := []struct {
		name          string
		zoneCount     int
		expectedScore int
	}{
		{"no zones", 0, 100},
		{"three zones", 3, 70},
		{"eleven zones floors at zero", 11, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.Config{}
			for i := 0; i < tt.zoneCount; i++ {
				cfg = cfg.WithZone(models.Zone{
					Name: string(rune('A' + i)),
					Rect: geometry.Rect{X: 0, Y: 0, W: 0.1, H: 0.1},
				})
			}

			result := NewZoneValidator().Validate(cfg, nil, 0, 0)
			if result.Score != tt.expectedScore {
				t.Errorf("Expected score %d, got %d", tt.expectedScore, result.Score)
			}
			if len(result.Infractions) != tt.zoneCount {
				t.Errorf("Expected %d infractions, got %d", tt.zoneCount, len(result.Infractions))
			}
			for _, inf := range result.Infractions {
				if !strings.HasPrefix(inf.Message, "No text found in ") {
					t.Errorf("Unexpected infraction message: %q", inf.Message)
				}
			}
		})
	}
}

func TestValidate_IgnoreTermPrecedesIgnoreZone(t *testing.T) {
	// Text matches an ignore term AND the box lies outside every ignore
	// zone: must still be ignored_by_term, never unmatched.
	cfg := singleZoneConfig().
		WithIgnoreTerms("legal").
		WithIgnoreZone(models.Zone{Name: "footer", Rect: geometry.Rect{X: 0, Y: 0.9, W: 1, H: 0.1}})

	v := NewZoneValidator()
	result := v.Validate(cfg, []models.Detection{
		detection("Legal Disclaimer", 0.6, 0.1, 0.3, 0.05),
	}, 0, 0)

	cls := result.Detections[0].Classification
	if cls.Kind != models.IgnoredByTerm {
		t.Fatalf("Expected ignored_by_term, got %s", cls.Kind)
	}
	if cls.Term != "legal" {
		t.Errorf("Expected suppressing term 'legal', got %q", cls.Term)
	}
	// Ignored detections carry no penalty and never count toward coverage.
	if result.CoveredZones["A"] {
		t.Error("Ignored detection must not cover a zone")
	}
	if result.Score != 90 {
		t.Errorf("Expected score 90 (uncovered zone only), got %d", result.Score)
	}
}

func TestValidate_TermPrecedesZoneEvenWhenBothApply(t *testing.T) {
	cfg := singleZoneConfig().
		WithIgnoreTerms("logo").
		WithIgnoreZone(models.Zone{Name: "footer", Rect: geometry.Rect{X: 0, Y: 0.8, W: 1, H: 0.2}})

	result := NewZoneValidator().Validate(cfg, []models.Detection{
		detection("brand logo", 0.1, 0.85, 0.2, 0.1),
	}, 0, 0)

	if got := result.Detections[0].Classification.Kind; got != models.IgnoredByTerm {
		t.Errorf("Expected term match to win over zone match, got %s", got)
	}
}

func TestValidate_IgnoreZoneByContainment(t *testing.T) {
	cfg := models.Config{
		IgnoreZones: []models.Zone{
			{Name: "footer", Rect: geometry.Rect{X: 0.1, Y: 0.85, W: 0.8, H: 0.15}},
		},
	}

	v := NewZoneValidator()

	inside := v.Validate(cfg, []models.Detection{
		detection("fine print", 0.2, 0.9, 0.3, 0.05),
	}, 0, 0)
	cls := inside.Detections[0].Classification
	if cls.Kind != models.IgnoredByZone || cls.Zone != "footer" {
		t.Errorf("Expected ignored_by_zone footer, got %+v", cls)
	}
	if inside.Detections[0].Annotation.Color != models.ColorIgnored {
		t.Errorf("Expected blue annotation, got %s", inside.Detections[0].Annotation.Color)
	}

	// Box straddling the ignore zone boundary is NOT contained, so it
	// proceeds to matching under the containment policy.
	straddling := v.Validate(cfg, []models.Detection{
		detection("fine print", 0.05, 0.9, 0.3, 0.05),
	}, 0, 0)
	if got := straddling.Detections[0].Classification.Kind; got != models.Unmatched {
		t.Errorf("Expected straddling box unmatched under containment policy, got %s", got)
	}
}

func TestValidate_IgnoreZoneCornerPolicy(t *testing.T) {
	cfg := models.Config{
		IgnoreZones: []models.Zone{
			{Name: "footer", Rect: geometry.Rect{X: 0.1, Y: 0.85, W: 0.8, H: 0.15}},
		},
	}

	v := NewZoneValidatorWithOptions(DefaultOptions().WithIgnoreZonePolicy(IgnoreZoneCorner))

	// Top-left corner inside the ignore zone is enough, even though the box
	// spills past the right edge.
	result := v.Validate(cfg, []models.Detection{
		detection("fine print", 0.8, 0.9, 0.3, 0.05),
	}, 0, 0)
	if got := result.Detections[0].Classification.Kind; got != models.IgnoredByZone {
		t.Errorf("Expected ignored_by_zone under corner policy, got %s", got)
	}
}

func TestValidate_FirstQualifyingZoneWins(t *testing.T) {
	// Detection fully inside both zones; the first in definition order wins
	// even if the second would overlap equally well.
	cfg := models.Config{
		Zones: []models.Zone{
			{Name: "Headline", Rect: geometry.Rect{X: 0, Y: 0, W: 0.6, H: 0.6}},
			{Name: "Body", Rect: geometry.Rect{X: 0, Y: 0, W: 0.8, H: 0.8}},
		},
	}

	result := NewZoneValidator().Validate(cfg, []models.Detection{
		detection("hello", 0.1, 0.1, 0.2, 0.2),
	}, 0, 0)

	cls := result.Detections[0].Classification
	if cls.Zone != "Headline" {
		t.Errorf("Expected first zone to win, got %q", cls.Zone)
	}
	if !result.CoveredZones["Headline"] || result.CoveredZones["Body"] {
		t.Errorf("Expected only Headline covered, got %v", result.CoveredZones)
	}
	// The second zone stays uncovered and costs 10 points.
	if result.Score != 90 {
		t.Errorf("Expected score 90, got %d", result.Score)
	}
}

func TestValidate_ThresholdMonotonicity(t *testing.T) {
	// The set of detections matched at a higher threshold is a subset of
	// those matched at any lower threshold.
	cfg := models.Config{
		Zones: []models.Zone{
			{Name: "A", Rect: geometry.Rect{X: 0, Y: 0, W: 0.5, H: 0.5}},
		},
	}
	detections := []models.Detection{
		detection("fully inside", 0.1, 0.1, 0.2, 0.2),   // fraction 1.0
		detection("mostly inside", 0.4, 0.1, 0.2, 0.2),  // fraction 0.5
		detection("barely inside", 0.48, 0.1, 0.2, 0.2), // fraction 0.1
		detection("outside", 0.7, 0.7, 0.2, 0.2),        // fraction 0
	}

	thresholds := []float64{0, 0.05, 0.3, 0.5, 0.8, 1.0}
	var prev map[string]bool
	for i, th := range thresholds {
		v := NewZoneValidatorWithOptions(DefaultOptions().WithThreshold(th))
		result := v.Validate(cfg, detections, 0, 0)

		matched := make(map[string]bool)
		for _, out := range result.Detections {
			if out.Classification.Kind == models.MatchedZone {
				matched[out.Text] = true
			}
		}

		if i > 0 {
			for text := range matched {
				if !prev[text] {
					t.Errorf("Detection %q matched at threshold %f but not at %f", text, th, thresholds[i-1])
				}
			}
		}
		prev = matched
	}
}

func TestValidate_ThresholdExtremes(t *testing.T) {
	cfg := models.Config{
		Zones: []models.Zone{
			{Name: "A", Rect: geometry.Rect{X: 0, Y: 0, W: 0.5, H: 0.5}},
		},
	}

	// Threshold 0: any strictly positive overlap matches, but a box merely
	// touching the zone edge does not.
	v0 := NewZoneValidatorWithOptions(DefaultOptions().WithThreshold(0))
	overlapping := v0.Validate(cfg, []models.Detection{
		detection("sliver", 0.49, 0.1, 0.3, 0.1),
	}, 0, 0)
	if got := overlapping.Detections[0].Classification.Kind; got != models.MatchedZone {
		t.Errorf("Expected sliver overlap to match at threshold 0, got %s", got)
	}
	touching := v0.Validate(cfg, []models.Detection{
		detection("edge", 0.5, 0.1, 0.3, 0.1),
	}, 0, 0)
	if got := touching.Detections[0].Classification.Kind; got != models.Unmatched {
		t.Errorf("Expected edge-touching box unmatched at threshold 0, got %s", got)
	}

	// Threshold 1: only full containment of the detection box qualifies.
	v1 := NewZoneValidatorWithOptions(DefaultOptions().WithThreshold(1))
	contained := v1.Validate(cfg, []models.Detection{
		detection("inside", 0.1, 0.1, 0.2, 0.2),
	}, 0, 0)
	if got := contained.Detections[0].Classification.Kind; got != models.MatchedZone {
		t.Errorf("Expected contained box to match at threshold 1, got %s", got)
	}
	partial := v1.Validate(cfg, []models.Detection{
		detection("partial", 0.4, 0.1, 0.2, 0.2),
	}, 0, 0)
	if got := partial.Detections[0].Classification.Kind; got != models.Unmatched {
		t.Errorf("Expected partial box unmatched at threshold 1, got %s", got)
	}
}

func TestValidate_DegenerateDetectionNeverMatches(t *testing.T) {
	cfg := singleZoneConfig().
		WithIgnoreZone(models.Zone{Name: "footer", Rect: geometry.Rect{X: 0, Y: 0, W: 1, H: 1}})

	// Zero-width box inside both the zone and the ignore zone. Zero area
	// means it overlaps nothing; under the containment policy it is still
	// inside the ignore zone, which suppresses it before matching.
	result := NewZoneValidator().Validate(singleZoneConfig(), []models.Detection{
		{Quad: quadAt(0.1, 0.1, 0, 0.2), Text: "ghost"},
	}, 0, 0)
	if got := result.Detections[0].Classification.Kind; got != models.Unmatched {
		t.Errorf("Expected degenerate box unmatched, got %s", got)
	}

	ignored := NewZoneValidator().Validate(cfg, []models.Detection{
		{Quad: quadAt(0.1, 0.1, 0, 0.2), Text: "ghost"},
	}, 0, 0)
	if got := ignored.Detections[0].Classification.Kind; got != models.IgnoredByZone {
		t.Errorf("Expected degenerate box suppressed by enclosing ignore zone, got %s", got)
	}
}

func TestValidate_PixelQuadsNormalized(t *testing.T) {
	// A 1600x600 banner with a pixel-space detection covering the top-left
	// zone exactly.
	cfg := singleZoneConfig()
	result := NewZoneValidator().Validate(cfg, []models.Detection{
		{
			Quad: [4]geometry.Point{
				{X: 160, Y: 60}, {X: 640, Y: 60}, {X: 640, Y: 240}, {X: 160, Y: 240},
			},
			Text:       "HEADLINE",
			Confidence: 0.95,
		},
	}, 1600, 600)

	if result.Score != 100 {
		t.Errorf("Expected score 100, got %d (detections: %+v)", result.Score, result.Detections)
	}
	out := result.Detections[0]
	if out.Classification.Zone != "A" {
		t.Errorf("Expected matched zone A, got %+v", out.Classification)
	}
	if out.Confidence != 0.95 {
		t.Errorf("Expected confidence passed through, got %f", out.Confidence)
	}
}

func TestValidate_ScoreInvariant(t *testing.T) {
	// Sum of applied penalties equals MaxScore - score, clamped at zero.
	cfg := models.Config{
		Zones: []models.Zone{
			{Name: "A", Rect: geometry.Rect{X: 0, Y: 0, W: 0.3, H: 0.3}},
			{Name: "B", Rect: geometry.Rect{X: 0.5, Y: 0.5, W: 0.3, H: 0.3}},
		},
	}
	detections := []models.Detection{
		detection("in A", 0.05, 0.05, 0.1, 0.1),
		detection("stray one", 0.4, 0.05, 0.05, 0.05),
		detection("stray two", 0.9, 0.05, 0.05, 0.05),
	}

	result := NewZoneValidator().Validate(cfg, detections, 0, 0)
	expected := 100 - result.TotalPenalty()
	if expected < 0 {
		expected = 0
	}
	if result.Score != expected {
		t.Errorf("Score invariant violated: score %d, penalties %d", result.Score, result.TotalPenalty())
	}
	// Here: two unmatched (-40) and one uncovered zone (-10).
	if result.Score != 50 {
		t.Errorf("Expected score 50, got %d", result.Score)
	}

	// Every detection carries exactly one classification.
	if len(result.Detections) != len(detections) {
		t.Errorf("Expected %d outcomes, got %d", len(detections), len(result.Detections))
	}
	for _, out := range result.Detections {
		if out.Classification.Kind == "" {
			t.Errorf("Detection %q missing classification", out.Text)
		}
	}
}

func TestValidate_CustomPenalties(t *testing.T) {
	penalties := Penalties{MaxScore: 50, UnmatchedText: 5, UncoveredZone: 1}
	v := NewZoneValidatorWithOptions(DefaultOptions().WithPenalties(penalties))

	result := v.Validate(singleZoneConfig(), []models.Detection{
		detection("stray", 0.7, 0.7, 0.1, 0.1),
	}, 0, 0)

	if result.Score != 44 {
		t.Errorf("Expected score 44 (50-5-1), got %d", result.Score)
	}
}

func TestValidate_FuzzyTermMatching(t *testing.T) {
	cfg := models.Config{IgnoreTerms: []string{"sponsored"}}

	exact := NewZoneValidator()
	result := exact.Validate(cfg, []models.Detection{
		detection("sponsered content", 0.1, 0.1, 0.2, 0.05),
	}, 0, 0)
	if got := result.Detections[0].Classification.Kind; got != models.Unmatched {
		t.Errorf("Expected misspelled term unmatched without fuzzy matching, got %s", got)
	}

	fuzzy := NewZoneValidatorWithOptions(DefaultOptions().WithFuzzyTerms(1))
	result = fuzzy.Validate(cfg, []models.Detection{
		detection("sponsered content", 0.1, 0.1, 0.2, 0.05),
	}, 0, 0)
	if got := result.Detections[0].Classification.Kind; got != models.IgnoredByTerm {
		t.Errorf("Expected misspelled term ignored with fuzzy matching, got %s", got)
	}
}

func TestValidate_CaseInsensitiveTrimmedTermMatch(t *testing.T) {
	cfg := models.Config{}.WithIgnoreTerms("  Terms Apply  ")

	result := NewZoneValidator().Validate(cfg, []models.Detection{
		detection("  *TERMS APPLY in all regions  ", 0.1, 0.1, 0.2, 0.05),
	}, 0, 0)

	cls := result.Detections[0].Classification
	if cls.Kind != models.IgnoredByTerm || cls.Term != "terms apply" {
		t.Errorf("Expected case-insensitive substring match, got %+v", cls)
	}
}

func TestValidate_DetectorOrderPreservedInInfractions(t *testing.T) {
	cfg := models.Config{}
	detections := []models.Detection{
		detection("first", 0.1, 0.1, 0.1, 0.1),
		detection("second", 0.3, 0.3, 0.1, 0.1),
	}

	result := NewZoneValidator().Validate(cfg, detections, 0, 0)
	if len(result.Infractions) != 2 {
		t.Fatalf("Expected 2 infractions, got %d", len(result.Infractions))
	}
	if !strings.Contains(result.Infractions[0].Message, "'first'") ||
		!strings.Contains(result.Infractions[1].Message, "'second'") {
		t.Errorf("Infractions out of detector order: %v", result.Infractions)
	}
}
