package internal

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/postoaqui/postos-api/internal/models"
)

const CRON_SCHEDULE_REFRESH = "20 */6 * * *" // Every 6 hours

// RefreshRunner is implemented by the refresh simulator; declared here so the
// cron wiring does not depend on the refresh package.
type RefreshRunner interface {
	SimulateRefresh(maxStations int) (models.RefreshResult, error)
}

// DefaultRefreshBatch bounds how many stale stations each scheduled run touches.
const DefaultRefreshBatch = 100

func StartCron(runner RefreshRunner) (*cron.Cron, error) {

	c := cron.New()

	log.Print("Starting CRON job to refresh stale fuel prices")

	if _, err := c.AddFunc(CRON_SCHEDULE_REFRESH, func() {
		result, err := runner.SimulateRefresh(DefaultRefreshBatch)
		if err != nil {
			log.Printf("Error refreshing stale prices: %v\n", err)
			return
		}
		log.Printf("Inserted %d observations for %d stations", result.Created, result.StationsTouched)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
