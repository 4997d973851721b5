package plans

import (
	"fmt"
	"sort"

	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/iwvelando/payment-plans/pkg/mathutil"
	"go.uber.org/zap"
)

const planType = "Plan"

// Compute builds every plan for the given unit price. A price of zero or less
// means the unit is not ready to be quoted and yields no plans.
func Compute(price int64) []PaymentPlanResult {
	if price <= 0 {
		return nil
	}

	templates := Templates()
	results := make([]PaymentPlanResult, 0, len(templates))
	for _, template := range templates {
		results = append(results, Build(template, price))
	}
	return results
}

// ComputeUnit computes the plans for a unit and logs the outcome.
func ComputeUnit(logger *zap.Logger, unit UnitInfo) []PaymentPlanResult {
	if logger == nil {
		logger = zap.NewNop()
	}

	results := Compute(unit.TotalPrice)
	if len(results) == 0 {
		logger.Debug("no plans for unpriced unit",
			zap.String("op", "plans.ComputeUnit"),
			zap.Int64("price", unit.TotalPrice),
		)
		return results
	}

	logger.Debug("computed payment plans",
		zap.String("op", "plans.ComputeUnit"),
		zap.Int64("price", unit.TotalPrice),
		zap.Int("plans", len(results)),
	)
	return results
}

// Build applies one template to a unit price.
func Build(t Template, price int64) PaymentPlanResult {
	net := mathutil.RoundShare(price, mathutil.Complement(t.Discount))

	result := PaymentPlanResult{
		ID:                 t.ID,
		Name:               t.Name,
		Type:               planType,
		Description:        t.Description,
		OriginalPrice:      price,
		DiscountPercentage: t.Discount.InexactFloat64(),
		DiscountAmount:     mathutil.ApplyPercentage(price, t.Discount),
		NetPrice:           net,
	}

	if t.Cash {
		result.Schedule = []ScheduleItem{
			{Name: CashSettlementName, Percentage: 100, Amount: net, Timing: 0},
		}
		return result
	}

	downPayment := mathutil.FloorShare(net, t.DownPayment)
	schedule := []ScheduleItem{
		{Name: DownPaymentName, Percentage: t.DownPayment.InexactFloat64(), Amount: downPayment, Timing: 0},
	}
	allocated := downPayment

	for i, lump := range t.LumpSums {
		amount := mathutil.FloorShare(net, lump.Percent)
		schedule = append(schedule, ScheduleItem{
			Name:       fmt.Sprintf("%s%d", annualPaymentPrefix, i+1),
			Percentage: lump.Percent.InexactFloat64(),
			Amount:     amount,
			Timing:     lump.Month,
		})
		allocated += amount
	}

	month := t.FirstInstallmentMonth
	index := constants.DefaultStartIndex
	years := 0
	var financed int64
	phases := make([]PhasedInstallment, 0, len(t.Phases))

	for _, phase := range t.Phases {
		amount := net - allocated
		if !phase.Share.IsZero() {
			amount = mathutil.FloorShare(net, phase.Share)
		}
		allocated += amount
		financed += amount

		schedule = append(schedule, QuarterlySequence(amount, float64(phase.Years), net, month, index)...)

		quarters := QuarterCount(float64(phase.Years))
		phases = append(phases, PhasedInstallment{
			Label:         fmt.Sprintf("Years %d-%d", years+1, years+phase.Years),
			Monthly:       mathutil.Rate(amount, phase.Years*constants.MonthsPerYear),
			Quarterly:     mathutil.Rate(amount, quarters),
			DurationYears: phase.Years,
		})

		month += quarters * constants.MonthsPerQuarter
		index += quarters
		years += phase.Years
	}

	// Lump sums fall between quarterly installments; keep insertion order on ties.
	sort.SliceStable(schedule, func(i, j int) bool {
		return schedule[i].Timing < schedule[j].Timing
	})

	result.Schedule = ReconcileVariance(schedule, net, net)
	result.InstallmentsYears = years
	result.TotalInstallmentAmount = financed
	if len(phases) > 0 {
		result.MonthlyInstallment = phases[0].Monthly
		result.QuarterlyInstallment = phases[0].Quarterly
	}
	if len(phases) > 1 {
		result.PhasedInstallments = phases
	}

	return result
}
