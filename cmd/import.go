package cmd

import (
	"log"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/models"
)

const importBatchSize = 500

// Import bulk-loads stations from a CSV extract. Rows that fail to parse
// (most commonly a missing tax ID) are skipped individually; rows whose tax
// ID already exists are silently ignored by the upsert. A single bad row
// never fails the whole import — the command reports a tally instead.
func Import(dbPath string, csvPath string) error {

	repo, _, err := bootstrap(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	file, err := os.Open(csvPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", csvPath)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("failed to close file: %v", err)
		}
	}()

	var batch []models.Station
	imported, skipped, attempted := 0, 0, 0

	flush := func() error {
		inserted, err := repo.BulkUpsert(batch)
		if err != nil {
			return errors.Wrap(err, "failed to upsert station batch")
		}
		imported += inserted
		attempted += len(batch)
		batch = batch[:0]
		return nil
	}

	for record := range internal.ParseCSV(file, true, models.StationFromCSV) {
		if record.Error != nil {
			skipped++
			continue
		}
		batch = append(batch, record.Value)
		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return err
		}
	}

	log.Printf("imported %d stations (%d rows skipped, %d duplicates ignored)",
		imported, skipped, attempted-imported)

	return nil
}
