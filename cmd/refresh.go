package cmd

import (
	"log"

	"github.com/postoaqui/postos-api/internal/refresh"
)

// Refresh runs one simulated price refresh for up to maxStations stale stations.
func Refresh(dbPath string, maxStations int) error {

	repo, table, err := bootstrap(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	simulator := refresh.NewSimulator(repo, repo, table)

	result, err := simulator.SimulateRefresh(maxStations)
	if err != nil {
		// Keep whatever was written before the fault; report it alongside.
		log.Printf("refresh aborted after %d observations for %d stations",
			result.Created, result.StationsTouched)
		return err
	}

	log.Printf("created %d observations for %d stations", result.Created, result.StationsTouched)
	return nil
}
