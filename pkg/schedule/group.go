// Package schedule provides presentation views over plan schedules.
package schedule

import (
	"sort"
	"strings"

	"github.com/iwvelando/payment-plans/internal/plans"
)

// Group merges every schedule item due in the same month.
type Group struct {
	Names      []string `json:"names"`
	Percentage float64  `json:"percentage"`
	Amount     int64    `json:"amount"`
	Timing     int      `json:"timing"`
}

// Name joins the merged item names, e.g. "Annual Payment 1 + Quarterly Installment 4".
func (g Group) Name() string {
	return strings.Join(g.Names, " + ")
}

// GroupByTiming merges same-month items, summing amounts and percentages and
// keeping names in schedule order. Groups are sorted by timing. The input
// schedule is not modified.
func GroupByTiming(items []plans.ScheduleItem) []Group {
	index := make(map[int]int, len(items))
	groups := make([]Group, 0, len(items))

	for _, item := range items {
		if i, ok := index[item.Timing]; ok {
			groups[i].Names = append(groups[i].Names, item.Name)
			groups[i].Percentage += item.Percentage
			groups[i].Amount += item.Amount
			continue
		}
		index[item.Timing] = len(groups)
		groups = append(groups, Group{
			Names:      []string{item.Name},
			Percentage: item.Percentage,
			Amount:     item.Amount,
			Timing:     item.Timing,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Timing < groups[j].Timing
	})
	return groups
}

// MainSteps returns the items worth listing on a plan card: the down payment,
// annual payments and the cash settlement. Quarterly installments are left to
// the rate summary.
func MainSteps(items []plans.ScheduleItem) []plans.ScheduleItem {
	steps := make([]plans.ScheduleItem, 0, len(items))
	for _, item := range items {
		name := strings.ToLower(item.Name)
		if !strings.Contains(name, "installment") || strings.Contains(name, "down") {
			steps = append(steps, item)
		}
	}
	return steps
}

// Total sums the group amounts.
func Total(groups []Group) int64 {
	var total int64
	for _, g := range groups {
		total += g.Amount
	}
	return total
}
