package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/payment-plans/pkg/constants"
)

// Price parsing errors.
var (
	ErrInvalidPrice    = errors.New("invalid price")
	ErrFractionalPrice = errors.New("price must be a whole amount")
	ErrNegativePrice   = errors.New("price must not be negative")
)

var groupingReplacer = strings.NewReplacer(",", "", "_", "", " ", "", "\u00a0", "", "'", "")

// ParsePrice converts free-text price entry such as "1,250,000" or
// "EGP 1 250 000" into whole currency units. Blank input is an incomplete
// form and yields 0 without error.
func ParsePrice(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) >= len(constants.CurrencyCode) &&
		strings.EqualFold(trimmed[:len(constants.CurrencyCode)], constants.CurrencyCode) {
		trimmed = trimmed[len(constants.CurrencyCode):]
	}

	cleaned := groupingReplacer.Replace(trimmed)
	if cleaned == "" {
		return 0, nil
	}
	if strings.HasPrefix(cleaned, "-") {
		return 0, fmt.Errorf("%w: %q", ErrNegativePrice, value)
	}

	if whole, fraction, found := strings.Cut(cleaned, "."); found {
		if strings.Trim(fraction, "0") != "" {
			return 0, fmt.Errorf("%w: %q", ErrFractionalPrice, value)
		}
		cleaned = whole
	}

	price, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, value)
	}
	return price, nil
}

// ParseSelection splits a comma-separated list of plan IDs, dropping blanks
// and duplicates.
func ParseSelection(value string) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(value, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ValidateSelection checks that every selected plan ID is known.
func ValidateSelection(ids []string, known []string) error {
	valid := make(map[string]struct{}, len(known))
	for _, id := range known {
		valid[id] = struct{}{}
	}
	var unknown []string
	for _, id := range ids {
		if _, ok := valid[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown plan ids: %s", strings.Join(unknown, ", "))
	}
	return nil
}
