// Package search composes station filters. Two entry points coexist, mirroring
// the two generations of the search UI: the legacy single-predicate search
// (Search) and the cumulative address search (AddressSearch).
package search

import (
	"strings"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/models"
)

// Mode discriminates the legacy search predicate. Exactly one predicate
// group is active per query.
type Mode string

const (
	ModeName  Mode = "name"
	ModeCity  Mode = "city"
	ModeBrand Mode = "brand"
	ModeTaxID Mode = "taxid"
)

// AddressCriteria is the cumulative filter set for AddressSearch. Empty
// fields mean "not specified"; an unknown fuel type is ignored rather than
// rejected.
type AddressCriteria struct {
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	District  string `json:"district,omitempty"`
	StateCode string `json:"uf,omitempty"`
	FuelType  string `json:"fuel,omitempty"`
}

type Engine struct {
	stations internal.StationRepository
}

func NewEngine(stations internal.StationRepository) *Engine {
	return &Engine{stations: stations}
}

// Search runs the legacy single-mode search. The mode selects exactly one
// predicate group; state narrows city searches only. An empty query returns
// no results. Matches are case-insensitive substrings, results in insertion
// order.
func (e *Engine) Search(query string, mode Mode, state string) ([]models.Station, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Station{}, nil
	}

	filter := models.StationFilter{Order: models.OrderByID}

	switch mode {
	case ModeTaxID:
		filter.TaxID = digitsOnly(query)
	case ModeCity:
		filter.City = query
		filter.StateCode = strings.TrimSpace(state)
	case ModeBrand:
		filter.Brand = query
	default:
		filter.FreeText = query
	}

	return e.stations.Find(filter)
}

// AddressSearch AND-combines every non-empty criterion. All criteria empty
// means every station, ordered by city, district, display name. The fuel
// type filter matches stations with ANY observation of that type in their
// history, not just the latest.
func (e *Engine) AddressSearch(criteria AddressCriteria) ([]models.Station, error) {
	filter := models.StationFilter{
		Address:   strings.TrimSpace(criteria.Address),
		City:      strings.TrimSpace(criteria.City),
		District:  strings.TrimSpace(criteria.District),
		StateCode: strings.ToUpper(strings.TrimSpace(criteria.StateCode)),
		Order:     models.OrderByLocation,
	}

	if fuelType, ok := models.ParseFuelType(strings.TrimSpace(criteria.FuelType)); ok {
		filter.FuelType = fuelType
	}

	return e.stations.Find(filter)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
