package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	memoize "github.com/kofalt/go-memoize"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/models"
	"github.com/postoaqui/postos-api/internal/prices"
	"github.com/postoaqui/postos-api/internal/stats"
)

const dashboardTTL = 5 * time.Minute

// Dashboard serves the aggregate landing-page stats. The aggregates scan the
// whole observation table, so results are memoized for a few minutes.
func Dashboard(repo internal.Repository, resolver *prices.Resolver) func(c *gin.Context) {
	cache := memoize.NewMemoizer(dashboardTTL, 2*dashboardTTL)

	return func(c *gin.Context) {
		result, err, _ := memoize.Call(cache, "dashboard", func() (*models.DashboardStats, error) {
			return stats.Derive(repo, resolver)
		})
		if err != nil {
			log.Printf("error while deriving dashboard stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
