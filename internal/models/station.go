package models

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Column widths enforced on import; aligned with the national registry extract.
const (
	MaxTaxIDLen      = 20
	MaxNameLen       = 200
	MaxBrandLen      = 100
	MaxAddressLen    = 300
	MaxDistrictLen   = 100
	MaxCityLen       = 100
	MaxPostalCodeLen = 10
)

// Station is a fuel retail location. TradeName and Brand are optional,
// coordinates may be missing (either or both).
type Station struct {
	ID         int64    `json:"id"`
	TaxID      string   `json:"tax_id"`
	LegalName  string   `json:"legal_name"`
	TradeName  string   `json:"trade_name,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	Address    string   `json:"address"`
	District   string   `json:"district"`
	City       string   `json:"city"`
	StateCode  string   `json:"state_code"`
	PostalCode string   `json:"postal_code"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// DisplayName returns the trade name, falling back to the legal name.
func (s *Station) DisplayName() string {
	if s.TradeName != "" {
		return s.TradeName
	}
	return s.LegalName
}

func (s *Station) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s - %s, %s", s.Address, s.District, s.City, s.StateCode, s.PostalCode)
}

// Coordinates returns the station position; ok is false unless both
// latitude and longitude are set.
func (s *Station) Coordinates() (lat, lng float64, ok bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return 0, 0, false
	}
	return *s.Latitude, *s.Longitude, true
}

// StationFromCSV builds a Station from one import row. Headers come from the
// registry extract (CNPJ, RAZAO_SOCIAL, NOME_FANTASIA, BANDEIRA, ENDERECO,
// BAIRRO, MUNICIPIO/CIDADE, UF, CEP) and are matched case-insensitively.
// A row without a tax ID is a validation error; callers skip it and move on.
func StationFromCSV(record, headers []string) (Station, error) {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToUpper(strings.TrimSpace(h))] = i
	}

	field := func(names ...string) string {
		for _, name := range names {
			if i, ok := idx[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
		}
		return ""
	}

	taxID := field("CNPJ")
	if taxID == "" {
		return Station{}, errors.New("row has no tax id")
	}

	legalName := truncate(field("RAZAO_SOCIAL"), MaxNameLen)
	tradeName := truncate(field("NOME_FANTASIA"), MaxNameLen)
	if tradeName == "" {
		tradeName = legalName
	}

	return Station{
		TaxID:      truncate(taxID, MaxTaxIDLen),
		LegalName:  legalName,
		TradeName:  tradeName,
		Brand:      truncate(field("BANDEIRA"), MaxBrandLen),
		Address:    truncate(field("ENDERECO"), MaxAddressLen),
		District:   truncate(field("BAIRRO"), MaxDistrictLen),
		City:       truncate(field("MUNICIPIO", "CIDADE"), MaxCityLen),
		StateCode:  strings.ToUpper(truncate(field("UF"), 2)),
		PostalCode: truncate(field("CEP"), MaxPostalCodeLen),
	}, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
