package validation

import (
	"fmt"

	"github.com/iwvelando/payment-plans/internal/plans"
)

var (
	unitTypes = []string{plans.UnitTypeTypical, plans.UnitTypeGroundGarden}
	roomTypes = []string{plans.Rooms1, plans.Rooms2, plans.Rooms3}
)

// ValidateUnit checks the descriptive unit attributes and returns warnings.
// None of them block plan computation; an unset price only means there is
// nothing to quote yet.
func ValidateUnit(unit plans.UnitInfo) []string {
	var warnings []string

	if unit.TotalPrice <= 0 {
		warnings = append(warnings, "Unit price is not set; no payment plans can be computed")
	}
	if unit.UnitType != "" && !contains(unitTypes, unit.UnitType) {
		warnings = append(warnings, fmt.Sprintf("Unknown unit type '%s'", unit.UnitType))
	}
	if unit.Rooms != "" && !contains(roomTypes, unit.Rooms) {
		warnings = append(warnings, fmt.Sprintf("Unknown room count '%s'", unit.Rooms))
	}
	if unit.BUA < 0 {
		warnings = append(warnings, fmt.Sprintf("BUA must not be negative (%.2f)", unit.BUA))
	}
	if unit.GardenRoofArea < 0 {
		warnings = append(warnings, fmt.Sprintf("Garden/roof area must not be negative (%.2f)", unit.GardenRoofArea))
	}

	return warnings
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
