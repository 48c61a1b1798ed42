package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postoaqui/postos-api/internal/search"
)

// Search handles the legacy single-mode search: ?q=<term>&type=<mode>&uf=<state>.
func Search(engine *search.Engine) func(c *gin.Context) {
	return func(c *gin.Context) {
		query := c.Query("q")
		mode := search.Mode(c.DefaultQuery("type", string(search.ModeName)))
		state := c.Query("uf")

		results, err := engine.Search(query, mode, state)
		if err != nil {
			log.Printf("error while searching stations: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"results": results,
			"total":   len(results),
			"query":   query,
			"type":    mode,
		})
	}
}

// AddressSearch handles the cumulative address search. Every parameter is
// optional; no parameters at all lists every station.
func AddressSearch(engine *search.Engine) func(c *gin.Context) {
	return func(c *gin.Context) {
		criteria := search.AddressCriteria{
			Address:   c.Query("address"),
			City:      c.Query("city"),
			District:  c.Query("district"),
			StateCode: c.Query("uf"),
			FuelType:  c.Query("fuel"),
		}

		results, err := engine.AddressSearch(criteria)
		if err != nil {
			log.Printf("error while searching stations by address: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"results": results,
			"total":   len(results),
			"filters": criteria,
		})
	}
}

// Autocomplete suggests cities, districts, addresses and station names for
// terms of at least 2 characters.
func Autocomplete(engine *search.Engine) func(c *gin.Context) {
	return func(c *gin.Context) {
		suggestions, err := engine.Suggest(c.Query("term"))
		if err != nil {
			log.Printf("error while fetching suggestions: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, suggestions)
	}
}
