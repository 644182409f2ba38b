package domain

// Material types accepted on listings. The unit is derived from the material
// type and is not independently settable.
const (
	MaterialSoil           = "soil"
	MaterialGravel         = "gravel"
	MaterialStructuralFill = "structural_fill"
)

const (
	UnitCubicYards = "cubic_yards"
	UnitTons       = "tons"
)

// Listing types: Export posts supply, Import posts demand.
const (
	ListingTypeImport = "Import"
	ListingTypeExport = "Export"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// UnitFor returns the unit for a material type. ok is false for unknown types.
func UnitFor(materialType string) (unit string, ok bool) {
	switch materialType {
	case MaterialSoil, MaterialStructuralFill:
		return UnitCubicYards, true
	case MaterialGravel:
		return UnitTons, true
	default:
		return "", false
	}
}

// IsListingType reports whether s is a valid listing type.
func IsListingType(s string) bool {
	return s == ListingTypeImport || s == ListingTypeExport
}
