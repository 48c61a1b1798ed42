package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Observation provenance labels.
const (
	SourceSystem          = "System"
	SourceAutomaticUpdate = "Automatic Update"
)

// PriceObservation is a single timestamped price reading for one fuel type at
// one station. Observations are append-only: price history is never updated
// in place, and "current price" is always derived from the newest row.
type PriceObservation struct {
	ID          int64               `json:"id"`
	StationID   int64               `json:"station_id"`
	FuelType    FuelType            `json:"fuel_type"`
	Price       decimal.NullDecimal `json:"price"`
	CollectedAt time.Time           `json:"collected_at"`
	Source      string              `json:"source"`
}

// FuelTypeAverage is the all-time arithmetic mean over every stored
// observation of one fuel type, stale readings included.
type FuelTypeAverage struct {
	Mean  decimal.Decimal `json:"mean"`
	Count int             `json:"count"`
}

// CheapestEntry ranks a station by its lowest historical price for one fuel
// type; OtherPrices carries the latest observation for each other fuel type,
// for display next to the ranked price.
type CheapestEntry struct {
	Station     Station                       `json:"station"`
	MinPrice    decimal.Decimal               `json:"min_price"`
	OtherPrices map[FuelType]PriceObservation `json:"other_prices,omitempty"`
}

// RefreshResult tallies one simulated refresh run.
type RefreshResult struct {
	Created         int `json:"created"`
	StationsTouched int `json:"stations_touched"`
}

// DashboardStats is the aggregate view backing the landing page.
type DashboardStats struct {
	TotalStations     int                          `json:"total_stations"`
	TotalObservations int                          `json:"total_observations"`
	DistinctCities    int                          `json:"distinct_cities"`
	Means             map[FuelType]FuelTypeAverage `json:"means_by_fuel_type"`
	Cheapest          []CheapestEntry              `json:"cheapest_regular_gasoline"`
}
