// Package advisor maps a waste category and an optional location to an
// ordered list of disposal guidance strings.
package advisor

import (
	"fmt"
	"math"
	"sort"

	"github.com/ecosnap/ecosnap/internal/model"
)

const (
	earthRadiusKm = 6371

	// maxFacilityLines caps how many ranked facilities are appended.
	maxFacilityLines = 2
)

// Advisor blends static per-category guidance with proximity-ranked
// facilities. The ranking algorithm carries no embedded data; guidance and
// facilities come from the Data it is constructed with.
type Advisor struct {
	data Data
}

// New creates an Advisor over the given guidance data.
func New(data Data) *Advisor {
	return &Advisor{data: data}
}

// Suggest returns ordered guidance for a category: static rules first, then
// proximity-ranked facilities or a fallback prompt. The returned slice is
// never empty.
func (a *Advisor) Suggest(category model.WasteCategory, location *model.Location) []string {
	suggestions := append([]string(nil), a.data.Guidance[category]...)
	if len(suggestions) == 0 {
		suggestions = append(suggestions, a.data.Defaults...)
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, fallbackSuggestion)
	}

	// Facility ranking never runs for UNKNOWN
	if category == model.CategoryUnknown {
		return suggestions
	}

	if location == nil {
		return append(suggestions, enableLocationSuggestion)
	}

	ranked := a.rankFacilities(category, *location)
	if len(ranked) == 0 {
		return append(suggestions, noFacilitySuggestion)
	}

	suggestions = append(suggestions, facilityHeader)
	for i, rf := range ranked {
		if i == maxFacilityLines {
			break
		}
		suggestions = append(suggestions, fmt.Sprintf("- %s at %s (approx. %.1f km away).",
			rf.facility.Name, rf.facility.Address, rf.distanceKm))
	}

	return suggestions
}

type rankedFacility struct {
	facility   model.Facility
	distanceKm float64
}

// rankFacilities returns the facilities accepting category, sorted by
// ascending great-circle distance from the user.
func (a *Advisor) rankFacilities(category model.WasteCategory, from model.Location) []rankedFacility {
	var ranked []rankedFacility
	for _, f := range a.data.Facilities {
		if !f.AcceptsCategory(category) {
			continue
		}
		ranked = append(ranked, rankedFacility{
			facility:   f,
			distanceKm: haversineKm(from, model.Location{Lat: f.Lat, Lon: f.Lon}),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].distanceKm < ranked[j].distanceKm
	})

	return ranked
}

// haversineKm computes the great-circle distance between two points.
func haversineKm(a, b model.Location) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

const (
	facilityHeader           = "Nearby facilities:"
	noFacilitySuggestion     = "No partner facilities found nearby for this category. Please check your municipal website for official local options."
	enableLocationSuggestion = "Enable location services for nearby facility suggestions."
	fallbackSuggestion       = "Please check with your local municipality for the most accurate disposal information."
)
