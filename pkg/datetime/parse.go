// Package datetime provides contract-date parsing and the installment due-date
// calendar.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/teambition/rrule-go"
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseContractDate parses a "2006-01-02" contract date. An empty string
// means the contract is signed on the day of now.
func ParseContractDate(value string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.Parse(constants.DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid contract date %q: %w", value, err)
	}
	return t, nil
}

// DueDates returns the calendar date of each month offset from contract.
//
// Installments fall on the contract's day of month; in shorter months they
// fall on the last day instead of spilling into the next month.
func DueDates(contract time.Time, offsets []int) ([]time.Time, error) {
	if len(offsets) == 0 {
		return nil, nil
	}

	maxOffset := 0
	for _, offset := range offsets {
		if offset < 0 {
			return nil, fmt.Errorf("negative month offset %d", offset)
		}
		if offset > maxOffset {
			maxOffset = offset
		}
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:       rrule.MONTHLY,
		Dtstart:    contract,
		Count:      maxOffset + 1,
		Bymonthday: []int{contract.Day(), -1},
		Bysetpos:   []int{1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build due-date calendar: %w", err)
	}

	calendar := rule.All()
	if len(calendar) <= maxOffset {
		return nil, fmt.Errorf("due-date calendar ended after %d months", len(calendar))
	}

	dates := make([]time.Time, len(offsets))
	for i, offset := range offsets {
		dates[i] = calendar[offset]
	}
	return dates, nil
}

// FormatDue renders a due date as "02 Jan 2006".
func FormatDue(t time.Time) string {
	return t.Format(constants.DueDateLayout)
}
