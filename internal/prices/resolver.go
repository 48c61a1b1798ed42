// Package prices derives "current price" views from the append-only
// observation history.
package prices

import (
	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/models"
)

// Resolver answers price questions for stations and fuel types. It never
// fabricates data: a fuel type with no stored observation is simply absent
// from the returned maps, so callers can tell "no data" from "zero price".
type Resolver struct {
	repo internal.PriceRepository
}

func NewResolver(repo internal.PriceRepository) *Resolver {
	return &Resolver{repo: repo}
}

// LatestByFuelType returns the most recent observation per fuel type for a
// station. Observations arrive ordered newest first (collected_at, then id),
// so the first occurrence of each fuel type wins; equal timestamps resolve
// to the highest id, i.e. the last inserted row.
func (r *Resolver) LatestByFuelType(stationID int64) (map[models.FuelType]models.PriceObservation, error) {
	observations, err := r.repo.ObservationsForStation(stationID)
	if err != nil {
		return nil, err
	}

	latest := make(map[models.FuelType]models.PriceObservation)
	for _, obs := range observations {
		if _, ok := latest[obs.FuelType]; !ok {
			latest[obs.FuelType] = obs
		}
	}
	return latest, nil
}

// History groups a station's full observation history by fuel type, newest
// first within each group.
func (r *Resolver) History(stationID int64) (map[models.FuelType][]models.PriceObservation, error) {
	observations, err := r.repo.ObservationsForStation(stationID)
	if err != nil {
		return nil, err
	}

	history := make(map[models.FuelType][]models.PriceObservation)
	for _, obs := range observations {
		history[obs.FuelType] = append(history[obs.FuelType], obs)
	}
	return history, nil
}

// AggregateMeans returns the all-time mean price and observation count per
// fuel type, across every station and every stored observation.
func (r *Resolver) AggregateMeans() (map[models.FuelType]models.FuelTypeAverage, error) {
	return r.repo.MeansByFuelType()
}

// CheapestByFuelType ranks stations by their minimum historical price for
// the given fuel type, ascending, and attaches each station's latest
// observation for every other fuel type for display.
func (r *Resolver) CheapestByFuelType(fuelType models.FuelType, limit int) ([]models.CheapestEntry, error) {
	entries, err := r.repo.CheapestStations(fuelType, limit)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		latest, err := r.LatestByFuelType(entries[i].Station.ID)
		if err != nil {
			return nil, err
		}
		delete(latest, fuelType)
		if len(latest) > 0 {
			entries[i].OtherPrices = latest
		}
	}

	return entries, nil
}
