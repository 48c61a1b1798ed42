package main

import (
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/postoaqui/postos-api/cmd"
)

func main() {

	var dbPath string

	rootCmd := &cobra.Command{
		Use:   "postos-api",
		Short: "Fuel price lookup service for Brazilian gas stations",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("DB_PATH", "data/postos.db"), "path to the sqlite database")

	var port int
	var debug bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.ApiServer(dbPath, port, debug)
		},
	}
	serveCmd.Flags().IntVar(&port, "port", envIntOr("PORT", 8080), "port for the HTTP API server")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "expose pprof endpoints")

	importCmd := &cobra.Command{
		Use:   "import FILE.csv",
		Short: "Bulk-import stations from a CSV extract",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Import(dbPath, args[0])
		},
	}

	var maxStations int
	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Generate simulated price observations for stale stations",
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Refresh(dbPath, maxStations)
		},
	}
	refreshCmd.Flags().IntVar(&maxStations, "max", 100, "maximum number of stations to refresh")

	rootCmd.AddCommand(serveCmd, importCmd, refreshCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
