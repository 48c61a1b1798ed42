package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/models"
	"github.com/postoaqui/postos-api/internal/prices"
	"github.com/postoaqui/postos-api/internal/search"
)

const maxMapStations = 200 // keeps the map payload bounded
const maxMapPrices = 3

// ListStations returns every station, ordered by city, district, name.
func ListStations(engine *search.Engine) func(c *gin.Context) {
	return func(c *gin.Context) {
		results, err := engine.AddressSearch(search.AddressCriteria{})
		if err != nil {
			log.Printf("error while listing stations: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"results": results,
			"total":   len(results),
		})
	}
}

// StationDetail returns one station with its latest price per fuel type and
// its full history grouped by fuel type.
func StationDetail(repo internal.Repository, resolver *prices.Resolver) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid station id"})
			return
		}

		station, err := repo.FindByID(id)
		if errors.Is(err, internal.ErrStationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "station not found"})
			return
		}
		if err != nil {
			log.Printf("error while fetching station %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		latest, err := resolver.LatestByFuelType(id)
		if err != nil {
			log.Printf("error while resolving latest prices for station %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		history, err := resolver.History(id)
		if err != nil {
			log.Printf("error while fetching price history for station %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"station":       station,
			"display_name":  station.DisplayName(),
			"full_address":  station.FullAddress(),
			"latest_prices": latest,
			"history":       history,
		})
	}
}

type mapStation struct {
	ID        int64                                       `json:"id"`
	Name      string                                      `json:"name"`
	Address   string                                      `json:"address"`
	District  string                                      `json:"district"`
	City      string                                      `json:"city"`
	StateCode string                                      `json:"uf"`
	Brand     string                                      `json:"brand"`
	Latitude  float64                                     `json:"latitude"`
	Longitude float64                                     `json:"longitude"`
	Prices    map[models.FuelType]models.PriceObservation `json:"prices,omitempty"`
}

// StationsMap returns up to 200 stations that have both coordinates, each
// with up to its 3 most recent observations.
func StationsMap(repo internal.Repository) func(c *gin.Context) {
	return func(c *gin.Context) {
		stations, err := repo.Find(models.StationFilter{
			HasCoordinates: true,
			Limit:          maxMapStations,
		})
		if err != nil {
			log.Printf("error while fetching map stations: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
			return
		}

		payload := make([]mapStation, 0, len(stations))
		for _, station := range stations {
			lat, lng, ok := station.Coordinates()
			if !ok {
				continue
			}

			observations, err := repo.ObservationsForStation(station.ID)
			if err != nil {
				log.Printf("error while fetching observations for station %d: %v", station.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred"})
				return
			}
			recent := make(map[models.FuelType]models.PriceObservation, maxMapPrices)
			for _, obs := range observations {
				if len(recent) == maxMapPrices {
					break
				}
				if _, ok := recent[obs.FuelType]; !ok {
					recent[obs.FuelType] = obs
				}
			}

			brand := station.Brand
			if brand == "" {
				brand = "Independente"
			}

			payload = append(payload, mapStation{
				ID:        station.ID,
				Name:      station.DisplayName(),
				Address:   station.Address,
				District:  station.District,
				City:      station.City,
				StateCode: station.StateCode,
				Brand:     brand,
				Latitude:  lat,
				Longitude: lng,
				Prices:    recent,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"stations": payload,
			"total":    len(payload),
		})
	}
}
