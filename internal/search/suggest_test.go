package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postoaqui/postos-api/internal/models"
)

func TestSuggest(t *testing.T) {
	repo := setupTestRepo(t)
	engine := NewEngine(repo)

	fixtures := []models.Station{
		{TaxID: "10000000000101", LegalName: "Posto Um", City: "São Paulo", District: "Liberdade", StateCode: "SP"},
		{TaxID: "10000000000102", LegalName: "Posto Dois", City: "Santos", District: "Gonzaga", StateCode: "SP"},
		{TaxID: "10000000000103", LegalName: "Posto Três", TradeName: "Posto Santa Clara", City: "Campinas", District: "Santana", StateCode: "SP",
			Address: "Avenida Santos Dumont, 1234, quadra 56, lote 789, fundos"},
	}
	inserted, err := repo.BulkUpsert(fixtures)
	require.NoError(t, err)
	require.Equal(t, len(fixtures), inserted)

	t.Run("Terms shorter than two characters yield nothing", func(t *testing.T) {
		suggestions, err := engine.Suggest("s")
		require.NoError(t, err)
		assert.Empty(t, suggestions)
	})

	t.Run("Categories come in order: city, district, address, station", func(t *testing.T) {
		suggestions, err := engine.Suggest("sa")
		require.NoError(t, err)
		require.NotEmpty(t, suggestions)

		order := map[string]int{"city": 0, "district": 1, "address": 2, "station": 3}
		last := 0
		for _, s := range suggestions {
			rank, ok := order[s.Category]
			require.True(t, ok, "unexpected category %q", s.Category)
			assert.GreaterOrEqual(t, rank, last, "categories must not interleave")
			if rank > last {
				last = rank
			}
		}

		var cities, districts, stations []string
		for _, s := range suggestions {
			switch s.Category {
			case "city":
				cities = append(cities, s.Value)
			case "district":
				districts = append(districts, s.Value)
			case "station":
				stations = append(stations, s.Value)
			}
		}
		assert.ElementsMatch(t, []string{"São Paulo", "Santos"}, cities)
		assert.ElementsMatch(t, []string{"Santana"}, districts)
		assert.ElementsMatch(t, []string{"Posto Santa Clara"}, stations)
	})

	t.Run("Long addresses are truncated with an ellipsis", func(t *testing.T) {
		suggestions, err := engine.Suggest("santos dumont")
		require.NoError(t, err)

		var found bool
		for _, s := range suggestions {
			if s.Category != "address" {
				continue
			}
			found = true
			assert.True(t, strings.HasSuffix(s.Label, "..."), "label %q should be truncated", s.Label)
			assert.Contains(t, s.Value, "lote 789", "value keeps the full address")
		}
		assert.True(t, found, "expected an address suggestion")
	})

	t.Run("At most five suggestions per category", func(t *testing.T) {
		var batch []models.Station
		for i := 0; i < 7; i++ {
			batch = append(batch, models.Station{
				TaxID:     "200000000001" + string(rune('0'+i)) + "0",
				LegalName: "Posto Salina " + string(rune('A'+i)),
				City:      "Salinas " + string(rune('A'+i)),
				StateCode: "MG",
			})
		}
		inserted, err := repo.BulkUpsert(batch)
		require.NoError(t, err)
		require.Equal(t, len(batch), inserted)

		suggestions, err := engine.Suggest("salinas")
		require.NoError(t, err)

		count := 0
		for _, s := range suggestions {
			if s.Category == "city" {
				count++
			}
		}
		assert.Equal(t, 5, count)
	})
}
