package models

import (
	"strings"

	"go-banner-qa/pkg/geometry"
)

// Zone is a named rectangle in normalized (0-1) coordinates. Identity is the
// name; it is unique within a configuration.
type Zone struct {
	Name string        `json:"name"`
	Rect geometry.Rect `json:"rect"`
}

// Config is an immutable snapshot of the editor-defined validation
// configuration: copy zones, ignore terms, and ignore zones. Mutation helpers
// return a new Config; callers persist the result as an explicit side effect.
// Zone and ignore-zone order is definition order and is significant for
// matching; ignore-term order is preserved for display only.
type Config struct {
	Zones       []Zone   `json:"zones"`
	IgnoreTerms []string `json:"ignore_terms"`
	IgnoreZones []Zone   `json:"ignore_zones"`
}

// NormalizeTerm lowercases and trims an ignore term. Terms that normalize to
// the empty string are rejected by WithIgnoreTerms.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// WithZone returns a copy of the configuration with the zone added. Inserting
// a name that already exists overwrites that zone in place, keeping its
// position in definition order.
func (c Config) WithZone(zone Zone) Config {
	out := c.clone()
	for i, z := range out.Zones {
		if z.Name == zone.Name {
			out.Zones[i] = zone
			return out
		}
	}
	out.Zones = append(out.Zones, zone)
	return out
}

// WithoutZone returns a copy of the configuration with the named zone
// removed. Removing an unknown name is a no-op.
func (c Config) WithoutZone(name string) Config {
	out := c.clone()
	for i, z := range out.Zones {
		if z.Name == name {
			out.Zones = append(out.Zones[:i], out.Zones[i+1:]...)
			break
		}
	}
	return out
}

// WithIgnoreTerms returns a copy of the configuration with the terms added.
// Terms are normalized, empty terms dropped, and duplicates skipped while
// preserving insertion order.
func (c Config) WithIgnoreTerms(terms ...string) Config {
	out := c.clone()
	seen := make(map[string]bool, len(out.IgnoreTerms))
	for _, t := range out.IgnoreTerms {
		seen[t] = true
	}
	for _, t := range terms {
		norm := NormalizeTerm(t)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out.IgnoreTerms = append(out.IgnoreTerms, norm)
	}
	return out
}

// WithoutIgnoreTerm returns a copy of the configuration with the term
// removed (compared after normalization).
func (c Config) WithoutIgnoreTerm(term string) Config {
	norm := NormalizeTerm(term)
	out := c.clone()
	for i, t := range out.IgnoreTerms {
		if t == norm {
			out.IgnoreTerms = append(out.IgnoreTerms[:i], out.IgnoreTerms[i+1:]...)
			break
		}
	}
	return out
}

// WithIgnoreZone returns a copy of the configuration with the ignore zone
// added, overwriting by name like WithZone. Ignore zones are independent of
// copy zones and are never merged.
func (c Config) WithIgnoreZone(zone Zone) Config {
	out := c.clone()
	for i, z := range out.IgnoreZones {
		if z.Name == zone.Name {
			out.IgnoreZones[i] = zone
			return out
		}
	}
	out.IgnoreZones = append(out.IgnoreZones, zone)
	return out
}

// WithoutIgnoreZone returns a copy of the configuration with the named
// ignore zone removed.
func (c Config) WithoutIgnoreZone(name string) Config {
	out := c.clone()
	for i, z := range out.IgnoreZones {
		if z.Name == name {
			out.IgnoreZones = append(out.IgnoreZones[:i], out.IgnoreZones[i+1:]...)
			break
		}
	}
	return out
}

// ZoneNames returns the copy zone names in definition order.
func (c Config) ZoneNames() []string {
	names := make([]string, len(c.Zones))
	for i, z := range c.Zones {
		names[i] = z.Name
	}
	return names
}

func (c Config) clone() Config {
	out := Config{
		Zones:       make([]Zone, len(c.Zones)),
		IgnoreTerms: make([]string, len(c.IgnoreTerms)),
		IgnoreZones: make([]Zone, len(c.IgnoreZones)),
	}
	copy(out.Zones, c.Zones)
	copy(out.IgnoreTerms, c.IgnoreTerms)
	copy(out.IgnoreZones, c.IgnoreZones)
	return out
}
