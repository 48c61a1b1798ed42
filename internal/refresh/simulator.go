// Package refresh generates synthetic price observations for stations whose
// data has gone stale. It stands in for a live external price feed (the ANP
// integration): the randomness is bounded and brand-conditioned so that
// downstream aggregates stay plausible.
package refresh

import (
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/brands"
	"github.com/postoaqui/postos-api/internal/models"
)

// StalenessWindow is how old a station's newest observation may be before
// the station becomes eligible for a simulated refresh.
const StalenessWindow = 7 * 24 * time.Hour

const (
	minFuelsPerStation = 2
	maxFuelsPerStation = 4
	jitterLow          = 0.97
	jitterHigh         = 1.03
)

var observationsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "postos_simulated_observations_total",
	Help: "Synthetic price observations created by the refresh simulator.",
})

// Simulator creates bounded-random observations for stale stations.
type Simulator struct {
	stations internal.StationRepository
	prices   internal.PriceRepository
	table    brands.Table

	now func() time.Time
	rng *rand.Rand
}

func NewSimulator(stations internal.StationRepository, prices internal.PriceRepository, table brands.Table) *Simulator {
	seed := uint64(time.Now().UnixNano())
	return &Simulator{
		stations: stations,
		prices:   prices,
		table:    table,
		now:      time.Now,
		rng:      rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// SimulateRefresh selects up to maxStations stations with no observations or
// none newer than the staleness window, and inserts fresh synthetic prices
// for each: a uniform random subset of 2-4 of the brand's reference fuels,
// priced at base x brand factor x U[0.97, 1.03], rounded to 3 decimals.
// Each station's batch is inserted atomically, but a fault mid-run leaves
// earlier stations' observations in place; the partial Result is returned
// alongside the error.
func (s *Simulator) SimulateRefresh(maxStations int) (models.RefreshResult, error) {
	var result models.RefreshResult

	cutoff := s.now().UTC().Add(-StalenessWindow)
	stale, err := s.stations.StaleStations(cutoff, maxStations)
	if err != nil {
		return result, err
	}

	for _, station := range stale {
		batch := s.observationsFor(&station)
		if len(batch) == 0 {
			continue
		}

		inserted, err := s.prices.InsertBatch(batch)
		if err != nil {
			return result, err
		}
		observationsCreated.Add(float64(inserted))
		result.Created += inserted
		result.StationsTouched++
	}

	return result, nil
}

func (s *Simulator) observationsFor(station *models.Station) []models.PriceObservation {
	entry := s.table.Lookup(station.Brand)
	fuels := entry.FuelTypes()
	if len(fuels) == 0 {
		return nil
	}

	// Shuffle-and-take gives a uniform subset without replacement, so a
	// station never receives two observations for the same fuel per run.
	s.rng.Shuffle(len(fuels), func(i, j int) {
		fuels[i], fuels[j] = fuels[j], fuels[i]
	})
	n := minFuelsPerStation + s.rng.IntN(maxFuelsPerStation-minFuelsPerStation+1)
	if n > len(fuels) {
		n = len(fuels)
	}

	collectedAt := s.now().UTC()
	batch := make([]models.PriceObservation, 0, n)
	for _, fuel := range fuels[:n] {
		jitter := jitterLow + s.rng.Float64()*(jitterHigh-jitterLow)
		price := entry.Prices[fuel].
			Mul(entry.Factor).
			Mul(decimal.NewFromFloat(jitter)).
			Round(3)

		batch = append(batch, models.PriceObservation{
			StationID:   station.ID,
			FuelType:    fuel,
			Price:       decimal.NewNullDecimal(price),
			CollectedAt: collectedAt,
			Source:      models.SourceAutomaticUpdate,
		})
	}

	return batch
}
