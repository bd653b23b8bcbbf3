// Package model defines the core domain models used throughout the application.
package model

import "strings"

// WasteCategory is the fixed taxonomy the classifier must choose from.
type WasteCategory string

// Waste category constants.
const (
	CategoryPlastic      WasteCategory = "PLASTIC"
	CategoryPaper        WasteCategory = "PAPER"
	CategoryMetal        WasteCategory = "METAL"
	CategoryGlass        WasteCategory = "GLASS"
	CategoryOrganic      WasteCategory = "ORGANIC"
	CategoryElectronic   WasteCategory = "ELECTRONIC"
	CategoryTextile      WasteCategory = "TEXTILE"
	CategoryBattery      WasteCategory = "BATTERY"
	CategoryGeneralWaste WasteCategory = "GENERAL_WASTE"
	CategoryUnknown      WasteCategory = "UNKNOWN"
)

// AllCategories lists every taxonomy member in prompt order.
func AllCategories() []WasteCategory {
	return []WasteCategory{
		CategoryPlastic,
		CategoryPaper,
		CategoryMetal,
		CategoryGlass,
		CategoryOrganic,
		CategoryElectronic,
		CategoryTextile,
		CategoryBattery,
		CategoryGeneralWaste,
		CategoryUnknown,
	}
}

// ParseCategory maps classifier output onto the taxonomy. Anything the
// taxonomy does not contain collapses to UNKNOWN.
func ParseCategory(s string) WasteCategory {
	c := WasteCategory(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllCategories() {
		if c == known {
			return c
		}
	}
	return CategoryUnknown
}

// Valid reports whether c is a member of the taxonomy.
func (c WasteCategory) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c WasteCategory) String() string {
	return string(c)
}
