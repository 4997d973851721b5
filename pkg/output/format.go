// Package output provides utilities for formatting and displaying payment plans.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/iwvelando/payment-plans/internal/plans"
	"github.com/iwvelando/payment-plans/pkg/format"
	"github.com/iwvelando/payment-plans/pkg/schedule"
)

const notApplicable = "N/A"

// PrettyFormat outputs one human-readable card per plan.
func PrettyFormat(results []plans.PaymentPlanResult) {
	WritePretty(os.Stdout, results)
}

// WritePretty writes one card per plan: headline figures, the main payment
// steps and the periodic installment rates.
func WritePretty(w io.Writer, results []plans.PaymentPlanResult) {
	for i, plan := range results {
		fmt.Fprintf(w, "--- %s: %s ---\n", plan.ID, plan.Name)
		fmt.Fprintf(w, "Tenor: %s | Discount: %s | Net payable: %s\n",
			format.Tenor(plan.InstallmentsYears),
			format.Percentage(plan.DiscountPercentage, 1),
			format.Currency(plan.NetPrice))
		if plan.DiscountAmount > 0 {
			fmt.Fprintf(w, "You save: %s\n", format.CurrencyRate(plan.DiscountAmount))
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Step\tShare\tDue\tAmount")
		fmt.Fprintln(tw, "____\t_____\t___\t______")
		for _, item := range schedule.MainSteps(plan.Schedule) {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				item.Name,
				format.Percentage(item.Percentage, 3),
				format.Timing(item.Timing),
				format.Currency(item.Amount))
		}
		_ = tw.Flush()

		for _, line := range rateLines(plan) {
			fmt.Fprintln(w, line)
		}
		if i < len(results)-1 {
			fmt.Fprintln(w)
		}
	}
}

// rateLines summarises the periodic installment rates of a plan.
func rateLines(plan plans.PaymentPlanResult) []string {
	if plan.IsCash() {
		return nil
	}
	if len(plan.PhasedInstallments) > 0 {
		lines := make([]string, 0, len(plan.PhasedInstallments))
		for _, phase := range plan.PhasedInstallments {
			lines = append(lines, fmt.Sprintf("%s: quarterly %s, monthly %s",
				phase.Label, format.CurrencyRate(phase.Quarterly), format.CurrencyRate(phase.Monthly)))
		}
		return lines
	}
	return []string{fmt.Sprintf("Quarterly installment: %s | Monthly reference: %s",
		format.CurrencyRate(plan.QuarterlyInstallment), format.CurrencyRate(plan.MonthlyInstallment))}
}

// ComparisonFormat outputs the side-by-side comparison table.
func ComparisonFormat(results []plans.PaymentPlanResult) {
	WriteComparison(os.Stdout, results)
}

// WriteComparison writes one column per plan and one row per headline figure.
func WriteComparison(w io.Writer, results []plans.PaymentPlanResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No plans to compare")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	row := func(label string, cell func(plans.PaymentPlanResult) string) {
		cells := make([]string, 0, len(results)+1)
		cells = append(cells, label)
		for _, plan := range results {
			cells = append(cells, cell(plan))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}

	row("", func(p plans.PaymentPlanResult) string { return p.ID })
	row("Tenor", func(p plans.PaymentPlanResult) string { return format.Tenor(p.InstallmentsYears) })
	row("Net Price", func(p plans.PaymentPlanResult) string { return format.Currency(p.NetPrice) })
	row("Down Payment", func(p plans.PaymentPlanResult) string { return format.Currency(p.DownPayment()) })
	row("Discount", func(p plans.PaymentPlanResult) string { return format.Percentage(p.DiscountPercentage, 1) })
	row("Quarterly Installment", func(p plans.PaymentPlanResult) string {
		if p.IsCash() {
			return notApplicable
		}
		return format.CurrencyRate(p.QuarterlyInstallment)
	})
	row("Monthly Reference", func(p plans.PaymentPlanResult) string {
		if p.IsCash() {
			return notApplicable
		}
		return format.CurrencyRate(p.MonthlyInstallment)
	})
	_ = tw.Flush()
}

// CsvFormat outputs every schedule item in comma-separated value format.
func CsvFormat(results []plans.PaymentPlanResult) {
	fmt.Print(CsvString(results))
}

// CsvString renders every schedule item as CSV, one row per item.
func CsvString(results []plans.PaymentPlanResult) string {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"plan", "name", "item", "timing", "percentage", "amount"})
	for _, plan := range results {
		for _, item := range plan.Schedule {
			_ = writer.Write([]string{
				plan.ID,
				plan.Name,
				item.Name,
				strconv.Itoa(item.Timing),
				strconv.FormatFloat(item.Percentage, 'f', 3, 64),
				strconv.FormatInt(item.Amount, 10),
			})
		}
	}
	writer.Flush()
	return buf.String()
}

// JSONFormat outputs the plans as indented JSON.
func JSONFormat(results []plans.PaymentPlanResult) error {
	return WriteJSON(os.Stdout, results)
}

// WriteJSON encodes the plans as indented JSON. A nil list encodes as [].
func WriteJSON(w io.Writer, results []plans.PaymentPlanResult) error {
	if results == nil {
		results = []plans.PaymentPlanResult{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}
