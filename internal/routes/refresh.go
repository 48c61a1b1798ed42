package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/refresh"
)

// Refresh triggers a simulated price refresh for up to ?max= stale stations.
func Refresh(simulator *refresh.Simulator) func(c *gin.Context) {
	return func(c *gin.Context) {
		maxStations := internal.DefaultRefreshBatch
		if maxStr := c.Query("max"); maxStr != "" {
			m, err := strconv.Atoi(maxStr)
			if err != nil || m <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max parameter"})
				return
			}
			maxStations = m
		}

		result, err := simulator.SimulateRefresh(maxStations)
		if err != nil {
			// Observations written before the fault stay in place; report both.
			log.Printf("error while refreshing stale prices (partial result %+v): %v", result, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "An internal server error occurred",
				"partial": result,
			})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
