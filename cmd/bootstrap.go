package cmd

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/brands"
)

// bootstrap initialises shared resources used by all commands. It returns
// the repository and the brand reference price table, or an error if
// something failed during startup.
func bootstrap(dbPath string) (internal.Repository, brands.Table, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	table, err := brands.LoadReferenceTable()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load brand reference prices: %w", err)
	}

	db, err := internal.Connect(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := internal.Migrate("migrations", dbPath); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate SQL: %w", err)
	}

	repo := internal.NewRepository(db)

	return repo, table, nil
}
