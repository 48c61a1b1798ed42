package stats

import (
	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/models"
	"github.com/postoaqui/postos-api/internal/prices"
)

const cheapestLimit = 5

// Derive assembles the dashboard aggregates: basic counters, all-time price
// means per fuel type, and the cheapest regular-gasoline stations.
func Derive(repo internal.Repository, resolver *prices.Resolver) (*models.DashboardStats, error) {
	totalStations, err := repo.Count()
	if err != nil {
		return nil, err
	}

	totalObservations, err := repo.ObservationCount()
	if err != nil {
		return nil, err
	}

	distinctCities, err := repo.DistinctCityCount()
	if err != nil {
		return nil, err
	}

	means, err := resolver.AggregateMeans()
	if err != nil {
		return nil, err
	}

	cheapest, err := resolver.CheapestByFuelType(models.RegularGasoline, cheapestLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalStations:     totalStations,
		TotalObservations: totalObservations,
		DistinctCities:    distinctCities,
		Means:             means,
		Cheapest:          cheapest,
	}, nil
}
