// Package brands holds the per-brand reference price table used by the
// refresh simulator. The table is configuration, not a hardcoded global: it
// is loaded once at startup and injected into whatever needs it, so a real
// price-feed client can replace it later.
package brands

import (
	_ "embed"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/postoaqui/postos-api/internal"
	"github.com/postoaqui/postos-api/internal/models"
)

//go:embed reference_prices.csv
var referencePricesCSV string

// DefaultBrand is the fallback row for stations with an unknown or empty brand.
const DefaultBrand = "DEFAULT"

// Entry is one brand's reference data: a base price per fuel type the brand
// sells, and a static brand-level price multiplier.
type Entry struct {
	Brand  string
	Factor decimal.Decimal
	Prices map[models.FuelType]decimal.Decimal
}

// FuelTypes returns the fuel types this brand has a reference price for,
// in canonical order.
func (e Entry) FuelTypes() []models.FuelType {
	fuels := make([]models.FuelType, 0, len(e.Prices))
	for _, ft := range models.AllFuelTypes() {
		if _, ok := e.Prices[ft]; ok {
			fuels = append(fuels, ft)
		}
	}
	return fuels
}

// Table maps a brand name to its reference entry.
type Table map[string]Entry

// Lookup returns the entry for brand, falling back to the DEFAULT entry when
// the brand is empty or unknown.
func (t Table) Lookup(brand string) Entry {
	if entry, ok := t[strings.TrimSpace(brand)]; ok {
		return entry
	}
	return t[DefaultBrand]
}

// LoadReferenceTable parses the embedded reference price CSV. The header row
// names the fuel type columns; blank cells mean the brand has no reference
// price for that fuel.
func LoadReferenceTable() (Table, error) {
	table := make(Table)
	reader := strings.NewReader(referencePricesCSV)

	for record := range internal.ParseCSV(reader, true, parseEntry) {
		if record.Error != nil {
			return nil, errors.Wrap(record.Error, "failed to load brand reference prices")
		}
		if _, ok := table[record.Value.Brand]; ok {
			return nil, errors.Newf("duplicate brand detected: %s", record.Value.Brand)
		}
		table[record.Value.Brand] = record.Value
	}

	if _, ok := table[DefaultBrand]; !ok {
		return nil, errors.New("reference price table has no DEFAULT entry")
	}

	return table, nil
}

func parseEntry(record, headers []string) (Entry, error) {
	if len(record) < 2 {
		return Entry{}, errors.Newf("malformed reference price row: %v", record)
	}

	factor, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		return Entry{}, errors.Wrapf(err, "invalid factor for brand %q", record[0])
	}

	entry := Entry{
		Brand:  strings.TrimSpace(record[0]),
		Factor: factor,
		Prices: make(map[models.FuelType]decimal.Decimal),
	}

	for i := 2; i < len(record) && i < len(headers); i++ {
		cell := strings.TrimSpace(record[i])
		if cell == "" {
			continue
		}
		fuelType, ok := models.ParseFuelType(strings.TrimSpace(headers[i]))
		if !ok {
			return Entry{}, errors.Newf("unknown fuel type column %q", headers[i])
		}
		price, err := decimal.NewFromString(cell)
		if err != nil {
			return Entry{}, errors.Wrapf(err, "invalid price for brand %q, fuel %q", record[0], headers[i])
		}
		entry.Prices[fuelType] = price
	}

	return entry, nil
}
