package plans

import (
	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/shopspring/decimal"
)

// LumpSum is an annual payment of a fixed share of the net price.
type LumpSum struct {
	Percent decimal.Decimal
	Month   int
}

// Phase is a stretch of the tenor with one quarterly rate. A zero Share
// finances whatever the down payment, lump sums and earlier phases left over.
type Phase struct {
	Years int
	Share decimal.Decimal
}

// Template declares one plan. Build turns it into a PaymentPlanResult.
//
// All shares are percentages of the plan's net price. The net price is the
// unit price less Discount, rounded to the nearest unit; every other slice is
// floored.
type Template struct {
	ID          string
	Name        string
	Description string

	Discount    decimal.Decimal
	Cash        bool
	DownPayment decimal.Decimal
	LumpSums    []LumpSum

	// FirstInstallmentMonth times the first quarterly installment. Later
	// phases continue three months after the previous phase's last one.
	FirstInstallmentMonth int
	Phases                []Phase
}

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func remainder(years int) Phase {
	return Phase{Years: years}
}

// Templates returns the plans offered for every unit, in display order.
func Templates() []Template {
	return []Template{
		{
			ID:                    "plan-1",
			Name:                  "0% Downpayment - 5 Years - 12.5% Disc",
			Description:           "No down payment, 20 quarterly installments on the discounted price.",
			Discount:              pct("12.5"),
			DownPayment:           decimal.Zero,
			FirstInstallmentMonth: 0,
			Phases:                []Phase{remainder(5)},
		},
		{
			ID:                    "plan-2",
			Name:                  "15% Downpayment - 6 Years - 10% Disc",
			Description:           "15% down, balance over 24 quarterly installments on the discounted price.",
			Discount:              pct("10"),
			DownPayment:           pct("15"),
			FirstInstallmentMonth: constants.DefaultStartMonth,
			Phases:                []Phase{remainder(6)},
		},
		{
			ID:          "plan-3",
			Name:        "8% Downpayment - 8 Years",
			Description: "8% down, two 8% annual payments, balance over 32 quarterly installments.",
			Discount:    decimal.Zero,
			DownPayment: pct("8"),
			LumpSums: []LumpSum{
				{Percent: pct("8"), Month: 12},
				{Percent: pct("8"), Month: 24},
			},
			FirstInstallmentMonth: constants.DefaultStartMonth,
			Phases:                []Phase{remainder(8)},
		},
		{
			ID:                    "plan-4",
			Name:                  "10% Downpayment - 10 Years",
			Description:           "10% down, half the price over the first 4 years, balance over the next 6.",
			Discount:              decimal.Zero,
			DownPayment:           pct("10"),
			FirstInstallmentMonth: constants.DefaultStartMonth,
			Phases: []Phase{
				{Years: 4, Share: pct("50")},
				remainder(6),
			},
		},
		{
			ID:          "plan-5",
			Name:        "12% Downpayment - 12 Years",
			Description: "12% down, four 7% annual payments, balance over 48 quarterly installments.",
			Discount:    decimal.Zero,
			DownPayment: pct("12"),
			LumpSums: []LumpSum{
				{Percent: pct("7"), Month: 12},
				{Percent: pct("7"), Month: 24},
				{Percent: pct("7"), Month: 36},
				{Percent: pct("7"), Month: 48},
			},
			FirstInstallmentMonth: constants.DefaultStartMonth,
			Phases:                []Phase{remainder(12)},
		},
		{
			ID:          "plan-6",
			Name:        "CASH - 30% Disc",
			Description: "Single settlement at contract with a 30% discount.",
			Discount:    pct("30"),
			Cash:        true,
		},
	}
}

// IDs lists the template IDs in display order.
func IDs() []string {
	templates := Templates()
	ids := make([]string, 0, len(templates))
	for _, t := range templates {
		ids = append(ids, t.ID)
	}
	return ids
}
