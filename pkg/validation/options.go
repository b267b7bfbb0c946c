package validation

// IgnoreZonePolicy selects the containment test used when deciding whether a
// detection falls inside an ignore zone.
type IgnoreZonePolicy string

const (
	// IgnoreZoneContain suppresses a detection only when its bounding box is
	// fully contained in the ignore zone. This is the canonical policy.
	IgnoreZoneContain IgnoreZonePolicy = "contain"

	// IgnoreZoneCorner suppresses a detection when its top-left reference
	// corner lies inside the ignore zone. Looser, matches older editor
	// behavior.
	IgnoreZoneCorner IgnoreZonePolicy = "corner"
)

// Penalties holds the scoring policy: the score ceiling and the per-infraction
// point weights. These are configuration, not constants, so callers and tests
// can vary them.
type Penalties struct {
	// MaxScore is the starting (and maximum) score for a run.
	MaxScore int `json:"max_score"`

	// UnmatchedText is deducted for each detection outside every copy zone.
	UnmatchedText int `json:"unmatched_text"`

	// UncoveredZone is deducted for each copy zone no detection matched.
	UncoveredZone int `json:"uncovered_zone"`
}

// DefaultPenalties returns the standard scoring weights.
func DefaultPenalties() Penalties {
	return Penalties{
		MaxScore:      100,
		UnmatchedText: 20,
		UncoveredZone: 10,
	}
}

// Options configures a zone validator.
type Options struct {
	// OverlapThreshold is the minimum fraction of a detection's area that
	// must fall within a copy zone to count as inside it. The full closed
	// interval [0,1] is supported: 0 matches any detection whose box
	// strictly overlaps a zone, 1 requires full containment.
	OverlapThreshold float64

	// IgnoreZonePolicy selects the ignore-zone containment test.
	IgnoreZonePolicy IgnoreZonePolicy

	// Penalties is the scoring policy.
	Penalties Penalties

	// MaxTermDistance enables fuzzy ignore-term matching when positive: in
	// addition to substring containment, a term matches when any token of
	// the detected text is within this Levenshtein distance of it. Zero
	// keeps exact substring semantics.
	MaxTermDistance int
}

// DefaultOptions returns the canonical validator options.
func DefaultOptions() Options {
	return Options{
		OverlapThreshold: 0.8,
		IgnoreZonePolicy: IgnoreZoneContain,
		Penalties:        DefaultPenalties(),
		MaxTermDistance:  0,
	}
}

// WithThreshold returns options with the overlap threshold replaced, clamped
// to [0,1].
func (o Options) WithThreshold(threshold float64) Options {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	o.OverlapThreshold = threshold
	return o
}

// WithPenalties returns options with the scoring policy replaced.
func (o Options) WithPenalties(p Penalties) Options {
	o.Penalties = p
	return o
}

// WithIgnoreZonePolicy returns options with the ignore-zone policy replaced.
func (o Options) WithIgnoreZonePolicy(policy IgnoreZonePolicy) Options {
	o.IgnoreZonePolicy = policy
	return o
}

// WithFuzzyTerms returns options with fuzzy term matching enabled at the
// given maximum Levenshtein distance.
func (o Options) WithFuzzyTerms(maxDistance int) Options {
	o.MaxTermDistance = maxDistance
	return o
}
