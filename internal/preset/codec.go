// Package preset persists the zone validation configuration: copy zone
// presets, ignore terms, and ignore zones. Loading is fail-soft: malformed
// stored data degrades to an empty configuration instead of blocking a
// validation run.
package preset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go-banner-qa/pkg/geometry"
	"go-banner-qa/pkg/models"
)

// Storage keys, one per schema.
const (
	KeyZonePresets = "zone_presets.json"
	KeyIgnoreTerms = "ignore_terms.json"
	KeyIgnoreZones = "ignore_zones.json"
)

// rectObject is the {x,y,w,h} object form of a stored rectangle.
type rectObject struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ignoreZoneRecord is the stored form of one ignore zone.
type ignoreZoneRecord struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// DecodeZonePresets parses the zone preset schema: a JSON object mapping
// zone name to either the [x,y,w,h] array form or the {x,y,w,h} object form.
// Document order is preserved; it is the zone definition order. Coordinates
// are normalized on load (legacy percentage scale detected per rectangle)
// and clamped to [0,1].
func DecodeZonePresets(data []byte) ([]models.Zone, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("zone presets: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("zone presets: expected object, got %v", tok)
	}

	var zones []models.Zone
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("zone presets: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("zone presets: expected string key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("zone presets: zone %q: %w", name, err)
		}
		rect, err := decodeRect(raw)
		if err != nil {
			return nil, fmt.Errorf("zone presets: zone %q: %w", name, err)
		}
		zones = append(zones, models.Zone{Name: name, Rect: rect})
	}

	return zones, nil
}

// decodeRect accepts the [x,y,w,h] array form or the {x,y,w,h} object form.
func decodeRect(raw json.RawMessage) (geometry.Rect, error) {
	var arr []float64
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) != 4 {
			return geometry.Rect{}, fmt.Errorf("expected 4 coordinates, got %d", len(arr))
		}
		return normalizeRect(geometry.Rect{X: arr[0], Y: arr[1], W: arr[2], H: arr[3]}), nil
	}

	var obj rectObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return geometry.Rect{}, fmt.Errorf("neither array nor object form: %w", err)
	}
	return normalizeRect(geometry.Rect{X: obj.X, Y: obj.Y, W: obj.W, H: obj.H}), nil
}

// normalizeRect converts a stored rectangle to normalized coordinates.
// Legacy configurations use 0-100 percentage units; any coordinate above 1
// marks the rectangle as percentage-scaled. Coordinates then clamp to [0,1].
// Zero width/height is accepted: such rectangles are degenerate and never
// match anything.
func normalizeRect(r geometry.Rect) geometry.Rect {
	if r.X > 1 || r.Y > 1 || r.W > 1 || r.H > 1 {
		r = geometry.Rect{X: r.X / 100, Y: r.Y / 100, W: r.W / 100, H: r.H / 100}
	}
	return geometry.Rect{
		X: clamp01(r.X),
		Y: clamp01(r.Y),
		W: clamp01(r.W),
		H: clamp01(r.H),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EncodeZonePresets serializes zones in the array form, preserving definition
// order in the document.
func EncodeZonePresets(zones []models.Zone) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, z := range zones {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(z.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		coords, err := json.Marshal([4]float64{z.Rect.X, z.Rect.Y, z.Rect.W, z.Rect.H})
		if err != nil {
			return nil, err
		}
		buf.Write(coords)
	}
	buf.WriteByte('}')

	var indented bytes.Buffer
	if err := json.Indent(&indented, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	return indented.Bytes(), nil
}

// DecodeIgnoreTerms parses the ignore term schema: a JSON array of strings.
// Terms are trimmed, lowercased, and deduplicated; insertion order is
// preserved for display.
func DecodeIgnoreTerms(data []byte) ([]string, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ignore terms: %w", err)
	}
	return models.Config{}.WithIgnoreTerms(raw...).IgnoreTerms, nil
}

// EncodeIgnoreTerms serializes ignore terms.
func EncodeIgnoreTerms(terms []string) ([]byte, error) {
	if terms == nil {
		terms = []string{}
	}
	return json.MarshalIndent(terms, "", "    ")
}

// DecodeIgnoreZones parses the ignore zone schema: a JSON array of
// {name,x,y,w,h} objects, with the same scale normalization as zone presets.
func DecodeIgnoreZones(data []byte) ([]models.Zone, error) {
	var records []ignoreZoneRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ignore zones: %w", err)
	}
	zones := make([]models.Zone, 0, len(records))
	for _, rec := range records {
		zones = append(zones, models.Zone{
			Name: rec.Name,
			Rect: normalizeRect(geometry.Rect{X: rec.X, Y: rec.Y, W: rec.W, H: rec.H}),
		})
	}
	return zones, nil
}

// EncodeIgnoreZones serializes ignore zones.
func EncodeIgnoreZones(zones []models.Zone) ([]byte, error) {
	records := make([]ignoreZoneRecord, 0, len(zones))
	for _, z := range zones {
		records = append(records, ignoreZoneRecord{
			Name: z.Name, X: z.Rect.X, Y: z.Rect.Y, W: z.Rect.W, H: z.Rect.H,
		})
	}
	return json.MarshalIndent(records, "", "    ")
}
