package models

// StationOrder selects the ordering of a filtered station query.
type StationOrder int

const (
	// OrderByID preserves insertion order (legacy search results).
	OrderByID StationOrder = iota
	// OrderByLocation orders by city, district, display name (address search).
	OrderByLocation
)

// StationFilter is a cumulative AND of its non-empty fields, pushed down to
// the store as SQL predicates. Substring matches are case-insensitive; an
// empty filter matches every station.
type StationFilter struct {
	// FreeText is OR-matched against trade name, legal name, city, district
	// and address.
	FreeText string
	// TaxID is a digits-only substring match against stored tax IDs.
	TaxID    string
	City     string
	District string
	Address  string
	Brand    string
	// StateCode is an exact, case-insensitive match.
	StateCode string
	// FuelType keeps only stations with at least one observation of the given
	// type, at any point in history.
	FuelType FuelType
	// HasCoordinates keeps only stations with both latitude and longitude.
	HasCoordinates bool

	Order StationOrder
	Limit int
}

// Suggestion is one autocomplete entry. Label carries a short decorative
// prefix for display; Value is the raw matched text.
type Suggestion struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Category string `json:"category"`
}
