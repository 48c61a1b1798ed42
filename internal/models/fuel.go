package models

// FuelType identifies one of the fuel products tracked per station.
type FuelType string

const (
	RegularGasoline FuelType = "REGULAR_GASOLINE"
	PremiumGasoline FuelType = "PREMIUM_GASOLINE"
	Ethanol         FuelType = "ETHANOL"
	Diesel          FuelType = "DIESEL"
	DieselS10       FuelType = "DIESEL_S10"
	CNG             FuelType = "CNG"
)

// AllFuelTypes returns the tracked fuel types in display order.
func AllFuelTypes() []FuelType {
	return []FuelType{
		RegularGasoline,
		PremiumGasoline,
		Ethanol,
		Diesel,
		DieselS10,
		CNG,
	}
}

// ParseFuelType reports whether s names a known fuel type.
func ParseFuelType(s string) (FuelType, bool) {
	for _, ft := range AllFuelTypes() {
		if string(ft) == s {
			return ft, true
		}
	}
	return "", false
}
