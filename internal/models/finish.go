package models

// Finish is a named material/surface option (an MDF pattern, a laminate, a
// lacquer color) with its manufacturer and swatch image.
type Finish struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	Image        string `json:"image,omitempty" yaml:"image,omitempty"`
	Manufacturer string `json:"manufacturer" yaml:"manufacturer,omitempty"`
}

// Manufacturer groups the finishes of one supplier in the catalog file.
type Manufacturer struct {
	Name     string   `json:"name" yaml:"name"`
	Finishes []Finish `json:"finishes" yaml:"finishes"`
}

// FavoriteFinish is a bookmarked finish. The finish id is the natural key:
// favoriting the same finish twice keeps a single entry.
type FavoriteFinish struct {
	Finish
	// No extra metadata: presence in the collection is the whole state.
}
