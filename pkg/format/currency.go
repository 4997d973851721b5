// Package format renders amounts, percentages and schedule timings for display.
package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/payment-plans/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a whole-unit currency string with thousands separators
// (e.g., "EGP 1,250,000", "-EGP 40").
func Currency(amount int64) string {
	if amount < 0 {
		return "-" + constants.CurrencyCode + " " + printer.Sprintf("%d", -amount)
	}
	return constants.CurrencyCode + " " + printer.Sprintf("%d", amount)
}

// CurrencyRate formats an informational rate, rounded to whole units.
func CurrencyRate(amount float64) string {
	return Currency(int64(math.Round(amount)))
}

// NumericCurrency returns the grouped amount without the currency code (e.g., "1,250,000").
func NumericCurrency(amount int64) string {
	return printer.Sprintf("%d", amount)
}

// Percentage returns a percentage with the given decimals (e.g., "12.50%").
func Percentage(value float64, places int) string {
	return fmt.Sprintf("%.*f%%", places, value)
}

// Timing describes a month offset from the contract date.
func Timing(month int) string {
	if month == 0 {
		return "At contract"
	}
	return fmt.Sprintf("Month %d", month)
}

// Tenor describes a plan length, "Cash" for zero years.
func Tenor(years int) string {
	switch years {
	case 0:
		return "Cash"
	case 1:
		return "1 Year"
	default:
		return fmt.Sprintf("%d Years", years)
	}
}
