package preset

import (
	"go-banner-qa/pkg/geometry"
	"go-banner-qa/pkg/models"
)

// DefaultConfig returns the stock banner layout used when no preset has been
// saved yet: the three standard copy zones plus the footer ignore zone
// covering legal fine print.
func DefaultConfig() models.Config {
	return models.Config{
		Zones: []models.Zone{
			{Name: "Eyebrow Copy", Rect: geometry.Rect{X: 0.125, Y: 0.1042, W: 0.3047, H: 0.021}},
			{Name: "Headline Copy", Rect: geometry.Rect{X: 0.125, Y: 0.1458, W: 0.3047, H: 0.1458}},
			{Name: "Body Copy", Rect: geometry.Rect{X: 0.125, Y: 0.3027, W: 0.3047, H: 0.05}},
		},
		IgnoreZones: []models.Zone{
			{Name: "Footer", Rect: geometry.Rect{X: 0.1149, Y: 0.8958, W: 0.8041, H: 0.1959}},
		},
	}
}
