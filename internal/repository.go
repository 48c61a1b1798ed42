package internal

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tavsec/gin-healthcheck/checks"

	"github.com/postoaqui/postos-api/internal/models"
)

//go:embed sql/select_stations.sql
var selectStationsSQL string

//go:embed sql/insert_station.sql
var insertStationSQL string

//go:embed sql/insert_observation.sql
var insertObservationSQL string

//go:embed sql/observations_for_station.sql
var observationsForStationSQL string

//go:embed sql/means_by_fuel_type.sql
var meansByFuelTypeSQL string

//go:embed sql/cheapest_stations.sql
var cheapestStationsSQL string

//go:embed sql/stale_stations.sql
var staleStationsSQL string

// ErrStationNotFound is returned when a station lookup misses.
var ErrStationNotFound = errors.New("station not found")

// SuggestField names a station column usable for autocomplete lookups.
type SuggestField string

const (
	SuggestCity        SuggestField = "city"
	SuggestDistrict    SuggestField = "district"
	SuggestAddress     SuggestField = "address"
	SuggestStationName SuggestField = "trade_name"
)

type StationRepository interface {
	FindByID(id int64) (*models.Station, error)
	Find(filter models.StationFilter) ([]models.Station, error)
	BulkUpsert(batch []models.Station) (int, error)
	DistinctValues(field SuggestField, term string, limit int) ([]string, error)
	Count() (int, error)
	DistinctCityCount() (int, error)
	StaleStations(cutoff time.Time, limit int) ([]models.Station, error)
}

type PriceRepository interface {
	Insert(obs *models.PriceObservation) error
	InsertBatch(batch []models.PriceObservation) (int, error)
	ObservationsForStation(stationID int64) ([]models.PriceObservation, error)
	ObservationCount() (int, error)
	MeansByFuelType() (map[models.FuelType]models.FuelTypeAverage, error)
	CheapestStations(fuelType models.FuelType, limit int) ([]models.CheapestEntry, error)
}

// Repository is the full persistence surface handed to the cmd layer.
type Repository interface {
	StationRepository
	PriceRepository
	Check() checks.Check
	Close() error
}

type sqliteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &sqliteRepository{
		db: db,
	}
}

func (repo *sqliteRepository) Check() checks.Check {
	return checks.SqlCheck{Sql: repo.db}
}

func (repo *sqliteRepository) Close() error {
	return repo.db.Close()
}

func (repo *sqliteRepository) FindByID(id int64) (*models.Station, error) {
	row := repo.db.QueryRow(selectStationsSQL+" WHERE s.id = ?", id)

	station, err := scanStation(row)
	if err == sql.ErrNoRows {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station %d: %w", id, err)
	}
	return &station, nil
}

// likeEscaper neutralizes LIKE metacharacters in user-supplied terms; every
// LIKE predicate carries a matching ESCAPE clause.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case- and accent-insensitive substring pattern. The
// column side of the predicate must be wrapped in fold() to match.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(Fold(term)) + "%"
}

// Find applies the filter as a cumulative AND of SQL predicates. An empty
// filter returns every station.
func (repo *sqliteRepository) Find(filter models.StationFilter) ([]models.Station, error) {
	var conditions []string
	var args []any

	if filter.FreeText != "" {
		conditions = append(conditions,
			`(fold(s.trade_name) LIKE ? ESCAPE '\' OR fold(s.legal_name) LIKE ? ESCAPE '\' OR fold(s.city) LIKE ? ESCAPE '\' OR fold(s.district) LIKE ? ESCAPE '\' OR fold(s.address) LIKE ? ESCAPE '\')`)
		pattern := likePattern(filter.FreeText)
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}
	if filter.TaxID != "" {
		conditions = append(conditions, `s.tax_id LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.TaxID))
	}
	if filter.City != "" {
		conditions = append(conditions, `fold(s.city) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.City))
	}
	if filter.District != "" {
		conditions = append(conditions, `fold(s.district) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.District))
	}
	if filter.Address != "" {
		conditions = append(conditions, `fold(s.address) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Address))
	}
	if filter.Brand != "" {
		conditions = append(conditions, `fold(s.brand) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(filter.Brand))
	}
	if filter.StateCode != "" {
		conditions = append(conditions, "UPPER(s.state_code) = ?")
		args = append(args, strings.ToUpper(filter.StateCode))
	}
	if filter.FuelType != "" {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM price_observations po WHERE po.station_id = s.id AND po.fuel_type = ?)")
		args = append(args, string(filter.FuelType))
	}
	if filter.HasCoordinates {
		conditions = append(conditions, "s.latitude IS NOT NULL AND s.longitude IS NOT NULL")
	}

	query := selectStationsSQL
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	switch filter.Order {
	case models.OrderByLocation:
		query += " ORDER BY s.city, s.district, COALESCE(NULLIF(s.trade_name, ''), s.legal_name)"
	default:
		query += " ORDER BY s.id"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := repo.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute station query: %w", err)
	}
	defer closeRows(rows)

	stations := []models.Station{}
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan station row: %w", err)
		}
		stations = append(stations, station)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over station rows: %w", err)
	}

	return stations, nil
}

// BulkUpsert inserts stations, silently skipping rows whose tax ID already
// exists. The returned count only reflects rows actually inserted.
func (repo *sqliteRepository) BulkUpsert(batch []models.Station) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := repo.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("error rolling back transaction: %v", rbErr)
			}
		}
	}()

	stmt, err := tx.Prepare(insertStationSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Printf("failed to close statement: %v", err)
		}
	}()

	inserted := 0
	for _, station := range batch {
		var res sql.Result
		res, err = stmt.Exec(
			station.TaxID,
			station.LegalName,
			nullString(station.TradeName),
			nullString(station.Brand),
			station.Address,
			station.District,
			station.City,
			station.StateCode,
			station.PostalCode,
			station.Latitude,
			station.Longitude,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to execute individual insert: %w", err)
		}
		affected, raErr := res.RowsAffected()
		if raErr == nil {
			inserted += int(affected)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

func (repo *sqliteRepository) DistinctValues(field SuggestField, term string, limit int) ([]string, error) {
	var column string
	switch field {
	case SuggestCity, SuggestDistrict, SuggestAddress, SuggestStationName:
		column = string(field)
	default:
		return nil, fmt.Errorf("unsupported suggest field: %q", field)
	}

	query := fmt.Sprintf(
		`SELECT DISTINCT %s FROM stations WHERE fold(%s) LIKE ? ESCAPE '\' AND %s IS NOT NULL AND %s <> '' ORDER BY %s LIMIT ?`,
		column, column, column, column, column)

	rows, err := repo.db.Query(query, likePattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute suggest query: %w", err)
	}
	defer closeRows(rows)

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan suggest row: %w", err)
		}
		values = append(values, value)
	}

	return values, rows.Err()
}

func (repo *sqliteRepository) Count() (int, error) {
	return repo.countQuery("SELECT COUNT(*) FROM stations")
}

func (repo *sqliteRepository) DistinctCityCount() (int, error) {
	return repo.countQuery("SELECT COUNT(DISTINCT city) FROM stations")
}

func (repo *sqliteRepository) ObservationCount() (int, error) {
	return repo.countQuery("SELECT COUNT(*) FROM price_observations")
}

// StaleStations returns up to limit stations whose newest observation is
// older than cutoff, or which have no observations at all.
func (repo *sqliteRepository) StaleStations(cutoff time.Time, limit int) ([]models.Station, error) {
	// collected_at is stored in UTC; a zoned cutoff would compare
	// lexicographically against it and shift the window by the offset.
	rows, err := repo.db.Query(staleStationsSQL, cutoff.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute stale stations query: %w", err)
	}
	defer closeRows(rows)

	var stations []models.Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale station row: %w", err)
		}
		stations = append(stations, station)
	}

	return stations, rows.Err()
}

// Insert stores a single observation. CollectedAt defaults to now and Source
// to "System" when unset; the stored row is never touched again.
func (repo *sqliteRepository) Insert(obs *models.PriceObservation) error {
	applyObservationDefaults(obs)

	res, err := repo.db.Exec(insertObservationSQL,
		obs.StationID, string(obs.FuelType), obs.Price, obs.CollectedAt, obs.Source)
	if err != nil {
		return fmt.Errorf("failed to insert observation: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		obs.ID = id
	}
	return nil
}

// InsertBatch inserts observations within a single transaction. Callers must
// not rely on atomicity across multiple batches.
func (repo *sqliteRepository) InsertBatch(batch []models.PriceObservation) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := repo.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("error rolling back transaction: %v", rbErr)
			}
		}
	}()

	stmt, err := tx.Prepare(insertObservationSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Printf("failed to close statement: %v", err)
		}
	}()

	for i := range batch {
		obs := &batch[i]
		applyObservationDefaults(obs)
		_, err = stmt.Exec(obs.StationID, string(obs.FuelType), obs.Price, obs.CollectedAt, obs.Source)
		if err != nil {
			return 0, fmt.Errorf("failed to execute individual insert: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(batch), nil
}

func (repo *sqliteRepository) ObservationsForStation(stationID int64) ([]models.PriceObservation, error) {
	rows, err := repo.db.Query(observationsForStationSQL, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute observations query: %w", err)
	}
	defer closeRows(rows)

	var observations []models.PriceObservation
	for rows.Next() {
		var obs models.PriceObservation
		var fuelType string
		if err := rows.Scan(&obs.ID, &obs.StationID, &fuelType, &obs.Price, &obs.CollectedAt, &obs.Source); err != nil {
			return nil, fmt.Errorf("failed to scan observation row: %w", err)
		}
		obs.FuelType = models.FuelType(fuelType)
		observations = append(observations, obs)
	}

	return observations, rows.Err()
}

// MeansByFuelType averages over ALL stored observations, not just the latest
// per station. Dashboard consumers expect all-time averages here; NULL prices
// are excluded by AVG while still counting towards the group total.
func (repo *sqliteRepository) MeansByFuelType() (map[models.FuelType]models.FuelTypeAverage, error) {
	rows, err := repo.db.Query(meansByFuelTypeSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute means query: %w", err)
	}
	defer closeRows(rows)

	means := make(map[models.FuelType]models.FuelTypeAverage)
	for rows.Next() {
		var fuelType string
		var mean sql.NullFloat64
		var count int
		if err := rows.Scan(&fuelType, &mean, &count); err != nil {
			return nil, fmt.Errorf("failed to scan means row: %w", err)
		}
		if !mean.Valid {
			continue
		}
		means[models.FuelType(fuelType)] = models.FuelTypeAverage{
			Mean:  decimal.NewFromFloat(mean.Float64).Round(3),
			Count: count,
		}
	}

	return means, rows.Err()
}

// CheapestStations ranks stations by their minimum historical price for the
// given fuel type, ascending. OtherPrices is left for the resolver to fill.
func (repo *sqliteRepository) CheapestStations(fuelType models.FuelType, limit int) ([]models.CheapestEntry, error) {
	rows, err := repo.db.Query(cheapestStationsSQL, string(fuelType), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute cheapest stations query: %w", err)
	}
	defer closeRows(rows)

	var entries []models.CheapestEntry
	for rows.Next() {
		var entry models.CheapestEntry
		var tradeName, brand sql.NullString
		var minPrice float64
		if err := rows.Scan(
			&entry.Station.ID, &entry.Station.TaxID, &entry.Station.LegalName, &tradeName, &brand,
			&entry.Station.Address, &entry.Station.District, &entry.Station.City, &entry.Station.StateCode,
			&entry.Station.PostalCode, &entry.Station.Latitude, &entry.Station.Longitude, &minPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cheapest station row: %w", err)
		}
		entry.Station.TradeName = tradeName.String
		entry.Station.Brand = brand.String
		entry.MinPrice = decimal.NewFromFloat(minPrice).Round(3)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (repo *sqliteRepository) countQuery(query string) (int, error) {
	var count int
	if err := repo.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w", err)
	}
	return count, nil
}

func applyObservationDefaults(obs *models.PriceObservation) {
	if obs.CollectedAt.IsZero() {
		obs.CollectedAt = time.Now()
	}
	// Stored in UTC so that datetime comparisons against collected_at hold.
	obs.CollectedAt = obs.CollectedAt.UTC()
	if obs.Source == "" {
		obs.Source = models.SourceSystem
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (models.Station, error) {
	var station models.Station
	var tradeName, brand sql.NullString
	err := row.Scan(
		&station.ID, &station.TaxID, &station.LegalName, &tradeName, &brand,
		&station.Address, &station.District, &station.City, &station.StateCode,
		&station.PostalCode, &station.Latitude, &station.Longitude,
	)
	if err != nil {
		return models.Station{}, err
	}
	station.TradeName = tradeName.String
	station.Brand = brand.String
	return station, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("failed to close rows: %v", err)
	}
}
