// Package plans turns a unit price into the fixed set of competing payment
// plans offered for a unit, each with a complete, reconciled payment schedule.
package plans

// Unit types and room counts offered by the input form.
const (
	UnitTypeTypical      = "Typical"
	UnitTypeGroundGarden = "Ground + Garden"

	Rooms1 = "1 Bedroom"
	Rooms2 = "2 Bedrooms"
	Rooms3 = "3 Bedrooms"
)

// UnitInfo describes the unit being quoted. Only TotalPrice drives the plan
// math; everything else is carried for display and export.
type UnitInfo struct {
	UnitType       string  `json:"unitType" yaml:"unitType" mapstructure:"unitType"`
	TotalPrice     int64   `json:"totalPrice" yaml:"totalPrice" mapstructure:"totalPrice"`
	BUA            float64 `json:"bua,omitempty" yaml:"bua,omitempty" mapstructure:"bua"`
	GardenRoofArea float64 `json:"gardenRoofArea,omitempty" yaml:"gardenRoofArea,omitempty" mapstructure:"gardenRoofArea"`
	Rooms          string  `json:"rooms" yaml:"rooms" mapstructure:"rooms"`
	Floor          string  `json:"floor,omitempty" yaml:"floor,omitempty" mapstructure:"floor"`
	Building       string  `json:"building,omitempty" yaml:"building,omitempty" mapstructure:"building"`
}

// ScheduleItem is one line of a plan's payment schedule.
type ScheduleItem struct {
	Name string `json:"name"`
	// Percentage is the share of the plan's reference total, 3 decimals.
	Percentage float64 `json:"percentage"`
	// Amount is in whole currency units.
	Amount int64 `json:"amount"`
	// Timing is the month offset from the contract date; 0 is at signing.
	Timing int `json:"timing"`
}

// PhasedInstallment describes one tenor phase of a plan whose quarterly rate
// changes partway through.
type PhasedInstallment struct {
	Label         string  `json:"label"`
	Monthly       float64 `json:"monthly"`
	Quarterly     float64 `json:"quarterly"`
	DurationYears int     `json:"durationYears"`
}

// PaymentPlanResult is one complete plan.
type PaymentPlanResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`

	OriginalPrice      int64   `json:"originalPrice"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DiscountAmount     float64 `json:"discountAmount"`
	NetPrice           int64   `json:"netPrice"`

	InstallmentsYears      int     `json:"installmentsYears"`
	TotalInstallmentAmount int64   `json:"totalInstallmentAmount"`
	MonthlyInstallment     float64 `json:"monthlyInstallment"`
	QuarterlyInstallment   float64 `json:"quarterlyInstallment"`

	Schedule           []ScheduleItem      `json:"schedule"`
	PhasedInstallments []PhasedInstallment `json:"phasedInstallments,omitempty"`
}

// IsCash reports whether the plan is settled in a single payment.
func (p PaymentPlanResult) IsCash() bool {
	return p.InstallmentsYears == 0
}

// DownPayment returns the amount of the plan's down payment item; 0 when the
// plan has none.
func (p PaymentPlanResult) DownPayment() int64 {
	for _, item := range p.Schedule {
		if item.Name == DownPaymentName {
			return item.Amount
		}
	}
	return 0
}

// Total sums the schedule amounts.
func (p PaymentPlanResult) Total() int64 {
	var total int64
	for _, item := range p.Schedule {
		total += item.Amount
	}
	return total
}

// Find returns the plan with the given ID, or nil.
func Find(plans []PaymentPlanResult, id string) *PaymentPlanResult {
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i]
		}
	}
	return nil
}

// Select filters plans down to the given IDs, preserving plan order. An empty
// selection keeps every plan.
func Select(plans []PaymentPlanResult, ids []string) []PaymentPlanResult {
	if len(ids) == 0 {
		return plans
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	selected := make([]PaymentPlanResult, 0, len(ids))
	for _, plan := range plans {
		if _, ok := wanted[plan.ID]; ok {
			selected = append(selected, plan)
		}
	}
	return selected
}
