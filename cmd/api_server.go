package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/prices"
	"github.com/postoaqui/postos-api/internal/refresh"
	"github.com/postoaqui/postos-api/internal/routes"
	"github.com/postoaqui/postos-api/internal/search"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

func ApiServer(dbPath string, port int, debug bool) error {

	repo, table, err := bootstrap(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	engine := search.NewEngine(repo)
	resolver := prices.NewResolver(repo)
	simulator := refresh.NewSimulator(repo, repo, table)

	if _, err := internal.StartCron(simulator); err != nil {
		return fmt.Errorf("failed to start CRON jobs: %w", err)
	}

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		repo.Check(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize healthcheck: %v", err)
	}

	v1 := r.Group("/v1")
	v1.GET("/search", routes.Search(engine))
	v1.GET("/address-search", routes.AddressSearch(engine))
	v1.GET("/autocomplete", routes.Autocomplete(engine))
	v1.GET("/stations", routes.ListStations(engine))
	v1.GET("/stations/:id", routes.StationDetail(repo, resolver))
	v1.GET("/map", routes.StationsMap(repo))
	v1.GET("/dashboard", routes.Dashboard(repo, resolver))
	v1.POST("/refresh", routes.Refresh(simulator))

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %v", port, err)
	}

	return nil
}
