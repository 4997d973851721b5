package plans

import (
	"fmt"
	"math"

	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/iwvelando/payment-plans/pkg/mathutil"
)

// Schedule item names.
const (
	DownPaymentName     = "Down Payment"
	CashSettlementName  = "Cash Settlement"
	annualPaymentPrefix = "Annual Payment "
	quarterlyItemPrefix = "Quarterly Installment "
)

// QuarterCount converts a tenor in years to a whole number of quarters.
func QuarterCount(years float64) int {
	return int(math.Round(years * constants.QuartersPerYear))
}

// QuarterlySequence spreads totalAmount over equal quarterly installments.
//
// The per-quarter amount is floored to whole units, so the sequence may sum to
// less than totalAmount; ReconcileVariance absorbs the difference. Percentages
// are relative to referencePrice. Installments are timed every three months
// from startMonth and numbered from startIndex. A tenor of zero quarters
// yields nil.
func QuarterlySequence(totalAmount int64, years float64, referencePrice int64, startMonth, startIndex int) []ScheduleItem {
	quarters := QuarterCount(years)
	if quarters <= 0 {
		return nil
	}

	perQuarter := mathutil.FloorDiv(totalAmount, quarters)
	percentage := mathutil.Percentage(perQuarter, referencePrice)

	items := make([]ScheduleItem, 0, quarters)
	for k := 1; k <= quarters; k++ {
		items = append(items, ScheduleItem{
			Name:       fmt.Sprintf("%s%d", quarterlyItemPrefix, startIndex+k-1),
			Percentage: percentage,
			Amount:     perQuarter,
			Timing:     startMonth + (k-1)*constants.MonthsPerQuarter,
		})
	}
	return items
}

// ReconcileVariance returns a copy of schedule whose amounts sum to target
// exactly. The whole variance lands on the final item, whose percentage is
// recomputed against referencePrice. An empty schedule is returned as is.
func ReconcileVariance(schedule []ScheduleItem, target, referencePrice int64) []ScheduleItem {
	if len(schedule) == 0 {
		return schedule
	}

	var sum int64
	for _, item := range schedule {
		sum += item.Amount
	}

	reconciled := make([]ScheduleItem, len(schedule))
	copy(reconciled, schedule)

	last := reconciled[len(reconciled)-1]
	last.Amount += target - sum
	last.Percentage = mathutil.Percentage(last.Amount, referencePrice)
	reconciled[len(reconciled)-1] = last

	return reconciled
}
