package search

import (
	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/models"
)

const (
	minSuggestTermLen  = 2
	maxPerCategory     = 5
	maxAddressLabelLen = 47
)

// Suggestion categories, emitted in this order with no interleaving.
var suggestCategories = []struct {
	field    internal.SuggestField
	category string
	prefix   string
	truncate bool
}{
	{internal.SuggestCity, "city", "🏙️", false},
	{internal.SuggestDistrict, "district", "📍", false},
	{internal.SuggestAddress, "address", "🏠", true},
	{internal.SuggestStationName, "station", "⛽", false},
}

// Suggest returns autocomplete entries for term: up to 5 distinct matching
// values per category (city, district, address, station name), in that
// order. Terms shorter than 2 characters yield nothing.
func (e *Engine) Suggest(term string) ([]models.Suggestion, error) {
	if len([]rune(term)) < minSuggestTermLen {
		return []models.Suggestion{}, nil
	}

	suggestions := []models.Suggestion{}
	for _, cat := range suggestCategories {
		values, err := e.stations.DistinctValues(cat.field, term, maxPerCategory)
		if err != nil {
			return nil, err
		}
		for _, value := range values {
			label := value
			if cat.truncate {
				label = truncateLabel(value, maxAddressLabelLen)
			}
			suggestions = append(suggestions, models.Suggestion{
				Label:    cat.prefix + " " + label,
				Value:    value,
				Category: cat.category,
			})
		}
	}

	return suggestions, nil
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
