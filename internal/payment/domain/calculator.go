package domain

import (
	"sort"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

// TaxRate is the flat tax applied to every subtotal.
const TaxRate = 0.15

// DefaultWasteType is billed for any type missing from WasteRates.
const DefaultWasteType = "mixed"

// WasteRates holds GHS per kg for each waste type.
var WasteRates = map[string]float64{
	"plastic":     2.5,
	"paper":       2.0,
	"glass":       3.0,
	"metal":       4.0,
	"organic":     1.5,
	"electronics": 8.0,
	"mixed":       2.0,
}

// ServiceSurcharges holds the flat GHS fee of each additional service.
var ServiceSurcharges = map[string]float64{
	"rush_pickup":      5.0,
	"special_handling": 3.0,
	"extended_hours":   2.0,
	"weekend_pickup":   4.0,
}

type Breakdown struct {
	BaseAmount       float64 `json:"base_amount"`
	AdditionalAmount float64 `json:"additional_amount"`
	Subtotal         float64 `json:"subtotal"`
	Tax              float64 `json:"tax"`
	TotalAmount      float64 `json:"total_amount"`
}

// Rate returns the per-kg rate for wasteType, falling back to mixed.
func Rate(wasteType string) float64 {
	if rate, ok := WasteRates[wasteType]; ok {
		return rate
	}
	return WasteRates[DefaultWasteType]
}

func IsKnownWasteType(wasteType string) bool {
	_, ok := WasteRates[wasteType]
	return ok
}

// WasteTypes lists the billable waste types in alphabetical order.
func WasteTypes() []string {
	types := make([]string, 0, len(WasteRates))
	for t := range WasteRates {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Calculate prices a pickup. Unknown waste types use the mixed rate and
// unknown services cost nothing. Each output is rounded to two decimals,
// computed from unrounded intermediates.
func Calculate(wasteType string, weightKg float64, additionalServices []string) Breakdown {
	base := Rate(wasteType) * weightKg

	additional := 0.0
	for _, s := range additionalServices {
		additional += ServiceSurcharges[s]
	}

	subtotal := base + additional
	tax := subtotal * TaxRate

	return Breakdown{
		BaseAmount:       util.Round2(base),
		AdditionalAmount: util.Round2(additional),
		Subtotal:         util.Round2(subtotal),
		Tax:              util.Round2(tax),
		TotalAmount:      util.Round2(subtotal + tax),
	}
}
