package model

// Facility is a disposal or recycling location with a declared set of
// accepted waste categories.
type Facility struct {
	Name    string          `yaml:"name" json:"name"`
	Address string          `yaml:"address" json:"address"`
	Accepts []WasteCategory `yaml:"accepts" json:"accepts"`
	Lat     float64         `yaml:"lat" json:"lat"`
	Lon     float64         `yaml:"lon" json:"lon"`
}

// AcceptsCategory reports whether the facility takes the given category.
func (f Facility) AcceptsCategory(c WasteCategory) bool {
	for _, a := range f.Accepts {
		if a == c {
			return true
		}
	}
	return false
}
