// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/payment-plans/internal/plans"
)

// FindPlan finds a plan by ID in the results slice.
// Returns a pointer to the plan if found, nil otherwise.
func FindPlan(results []plans.PaymentPlanResult, id string) *plans.PaymentPlanResult {
	for i := range results {
		if results[i].ID == id {
			return &results[i]
		}
	}
	return nil
}

// SumAmounts adds up the amounts of a schedule.
func SumAmounts(items []plans.ScheduleItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Amount
	}
	return total
}

// SampleUnit returns a fully described unit at the given price.
func SampleUnit(price int64) plans.UnitInfo {
	return plans.UnitInfo{
		UnitType:       plans.UnitTypeGroundGarden,
		TotalPrice:     price,
		BUA:            145,
		GardenRoofArea: 60,
		Rooms:          plans.Rooms3,
		Floor:          "Ground",
		Building:       "A1",
	}
}
