package advisor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosnap/ecosnap/internal/model"
)

func testData(t *testing.T) Data {
	t.Helper()
	data, err := DefaultData()
	require.NoError(t, err)
	return data
}

func TestSuggestNeverEmpty(t *testing.T) {
	a := New(testData(t))

	for _, category := range model.AllCategories() {
		t.Run(string(category), func(t *testing.T) {
			assert.NotEmpty(t, a.Suggest(category, nil))
			assert.NotEmpty(t, a.Suggest(category, &model.Location{Lat: 34, Lon: -118}))
		})
	}
}

func TestSuggestUnknownSkipsFacilityRanking(t *testing.T) {
	data := testData(t)
	a := New(data)

	loc := &model.Location{Lat: 34.0522, Lon: -118.2437}
	got := a.Suggest(model.CategoryUnknown, loc)

	assert.Equal(t, data.Guidance[model.CategoryUnknown], got,
		"UNKNOWN must return exactly the static guidance, no facility or location lines")
}

func TestSuggestWithoutLocationInvitesEnabling(t *testing.T) {
	a := New(testData(t))

	got := a.Suggest(model.CategoryPlastic, nil)
	require.NotEmpty(t, got)
	assert.Equal(t, enableLocationSuggestion, got[len(got)-1])
}

func TestSuggestRanksFacilitiesByDistance(t *testing.T) {
	near := model.Facility{
		Name: "Near Depot", Address: "1 Close St",
		Accepts: []model.WasteCategory{model.CategoryMetal},
		Lat:     34.05, Lon: -118.25,
	}
	mid := model.Facility{
		Name: "Mid Depot", Address: "2 Middle Ave",
		Accepts: []model.WasteCategory{model.CategoryMetal},
		Lat:     34.5, Lon: -118.25,
	}
	far := model.Facility{
		Name: "Far Depot", Address: "3 Distant Rd",
		Accepts: []model.WasteCategory{model.CategoryMetal},
		Lat:     36.0, Lon: -118.25,
	}
	other := model.Facility{
		Name: "Textile Only", Address: "4 Cloth Ct",
		Accepts: []model.WasteCategory{model.CategoryTextile},
		Lat:     34.05, Lon: -118.25,
	}

	data := testData(t)
	// Deliberately unsorted
	data.Facilities = []model.Facility{far, other, near, mid}
	a := New(data)

	loc := &model.Location{Lat: 34.0522, Lon: -118.2437}
	got := a.Suggest(model.CategoryMetal, loc)

	staticLen := len(data.Guidance[model.CategoryMetal])
	require.Len(t, got, staticLen+3, "static guidance + header + two facility lines")
	assert.Equal(t, facilityHeader, got[staticLen])
	assert.Contains(t, got[staticLen+1], "Near Depot")
	assert.Contains(t, got[staticLen+2], "Mid Depot")

	for _, line := range got {
		assert.NotContains(t, line, "Textile Only",
			"facilities not accepting the category are never ranked")
	}
}

func TestSuggestFacilityLineFormat(t *testing.T) {
	data := testData(t)
	data.Facilities = []model.Facility{{
		Name: "City Central Recycling Hub", Address: "123 Green Way, Eco City",
		Accepts: []model.WasteCategory{model.CategoryGlass},
		Lat:     34.0522, Lon: -118.2437,
	}}
	a := New(data)

	// Same coordinates: distance is 0.0 km
	got := a.Suggest(model.CategoryGlass, &model.Location{Lat: 34.0522, Lon: -118.2437})
	last := got[len(got)-1]
	assert.Equal(t, "- City Central Recycling Hub at 123 Green Way, Eco City (approx. 0.0 km away).", last)
}

func TestSuggestNoAcceptingFacility(t *testing.T) {
	data := testData(t)
	data.Facilities = nil
	a := New(data)

	got := a.Suggest(model.CategoryBattery, &model.Location{Lat: 34, Lon: -118})
	require.NotEmpty(t, got)
	assert.Equal(t, noFacilitySuggestion, got[len(got)-1])
	assert.NotContains(t, strings.Join(got, "\n"), facilityHeader)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Los Angeles to San Francisco, roughly 559 km great-circle
	la := model.Location{Lat: 34.0522, Lon: -118.2437}
	sf := model.Location{Lat: 37.7749, Lon: -122.4194}

	d := haversineKm(la, sf)
	assert.InDelta(t, 559, d, 5, fmt.Sprintf("got %f", d))

	assert.Zero(t, haversineKm(la, la))
}

func TestLoadDataMissingFile(t *testing.T) {
	_, err := LoadData("/nonexistent/guidance.yaml")
	assert.Error(t, err)
}

func TestDefaultDataCoversTaxonomy(t *testing.T) {
	data := testData(t)
	for _, category := range model.AllCategories() {
		assert.NotEmpty(t, data.Guidance[category], "missing guidance for %s", category)
	}
	assert.NotEmpty(t, data.Facilities)
}
