package search

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/models"
)

func setupTestRepo(t *testing.T) internal.Repository {
	tmpFile, err := os.CreateTemp("", "postos_test-*.db")
	require.NoError(t, err)
	dbPath := tmpFile.Name()
	_ = tmpFile.Close()

	t.Cleanup(func() {
		_ = os.Remove(dbPath)
	})

	db, err := internal.Connect(dbPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	err = internal.Migrate("../../migrations", dbPath)
	require.NoError(t, err)
	return internal.NewRepository(db)
}

func seedStations(t *testing.T, repo internal.Repository) map[string]models.Station {
	t.Helper()

	fixtures := []models.Station{
		{
			TaxID:     "12345678000190",
			LegalName: "Auto Posto Carioca Ltda",
			TradeName: "Posto Carioca",
			Brand:     "Ipiranga",
			Address:   "Avenida Atlântica, 500",
			District:  "Copacabana",
			City:      "Rio de Janeiro",
			StateCode: "RJ",
		},
		{
			TaxID:     "98765432000110",
			LegalName: "Auto Posto Bandeirantes Ltda",
			TradeName: "Posto Bandeirantes",
			Brand:     "Shell",
			Address:   "Rua Augusta, 22",
			District:  "Consolação",
			City:      "São Paulo",
			StateCode: "SP",
		},
		{
			TaxID:     "55544433000122",
			LegalName: "Posto Mineirão Ltda",
			TradeName: "Posto Mineirão",
			Brand:     "BR",
			Address:   "Avenida Afonso Pena, 1000",
			District:  "Centro",
			City:      "Belo Horizonte",
			StateCode: "MG",
		},
	}

	inserted, err := repo.BulkUpsert(fixtures)
	require.NoError(t, err)
	require.Equal(t, len(fixtures), inserted)

	byTaxID := make(map[string]models.Station, len(fixtures))
	all, err := repo.Find(models.StationFilter{})
	require.NoError(t, err)
	for _, s := range all {
		byTaxID[s.TaxID] = s
	}
	return byTaxID
}

func TestSearchModes(t *testing.T) {
	repo := setupTestRepo(t)
	engine := NewEngine(repo)
	stations := seedStations(t, repo)

	t.Run("Empty query returns nothing", func(t *testing.T) {
		results, err := engine.Search("  ", ModeName, "")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Name mode ORs over name, city, district and address", func(t *testing.T) {
		results, err := engine.Search("copacabana", ModeName, "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Rio de Janeiro", results[0].City)

		results, err = engine.Search("bandeirantes", ModeName, "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "São Paulo", results[0].City)
	})

	t.Run("City mode with case-mismatched state", func(t *testing.T) {
		results, err := engine.Search("Rio", ModeCity, "rj")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, stations["12345678000190"].ID, results[0].ID)

		// Same city query against the wrong state matches nothing.
		results, err = engine.Search("Rio", ModeCity, "SP")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Brand mode", func(t *testing.T) {
		results, err := engine.Search("ipira", ModeBrand, "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Ipiranga", results[0].Brand)
	})

	t.Run("Tax ID mode strips formatting", func(t *testing.T) {
		results, err := engine.Search("12.345.678/0001-90", ModeTaxID, "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "12345678000190", results[0].TaxID)

		// Partial tax IDs are substring matches.
		results, err = engine.Search("987.654", ModeTaxID, "")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "98765432000110", results[0].TaxID)
	})
}

func TestAddressSearch(t *testing.T) {
	repo := setupTestRepo(t)
	engine := NewEngine(repo)
	stations := seedStations(t, repo)

	now := time.Now().UTC().Truncate(time.Second)
	d, err := decimal.NewFromString("5.990")
	require.NoError(t, err)
	// Old observation: fuel presence looks at the whole history.
	require.NoError(t, repo.Insert(&models.PriceObservation{
		StationID:   stations["55544433000122"].ID,
		FuelType:    models.Diesel,
		Price:       decimal.NewNullDecimal(d),
		CollectedAt: now.Add(-60 * 24 * time.Hour),
	}))

	t.Run("Empty criteria returns all stations ordered by location", func(t *testing.T) {
		results, err := engine.AddressSearch(AddressCriteria{})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "Belo Horizonte", results[0].City)
		assert.Equal(t, "Rio de Janeiro", results[1].City)
		assert.Equal(t, "São Paulo", results[2].City)
	})

	t.Run("Filters combine cumulatively", func(t *testing.T) {
		results, err := engine.AddressSearch(AddressCriteria{Address: "avenida"})
		require.NoError(t, err)
		assert.Len(t, results, 2)

		results, err = engine.AddressSearch(AddressCriteria{Address: "avenida", StateCode: "mg"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Belo Horizonte", results[0].City)

		results, err = engine.AddressSearch(AddressCriteria{Address: "avenida", StateCode: "mg", District: "nowhere"})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Fuel presence matches any historical observation", func(t *testing.T) {
		results, err := engine.AddressSearch(AddressCriteria{FuelType: "DIESEL"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Belo Horizonte", results[0].City)
	})

	t.Run("Unknown fuel type is treated as not specified", func(t *testing.T) {
		results, err := engine.AddressSearch(AddressCriteria{FuelType: "JETFUEL"})
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})
}
