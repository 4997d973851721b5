package mathutil

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFloorShare(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		percent  string
		expected int64
	}{
		{"Exact slice", 1000000, "8", 80000},
		{"Fraction floored", 1234567, "7", 86419},
		{"Float trap stays exact", 29, "100", 29},
		{"Half of odd price", 1000001, "50", 500000},
		{"Zero amount", 0, "12", 0},
		{"Fractional percent", 1000000, "12.5", 125000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FloorShare(tt.amount, decimal.RequireFromString(tt.percent))
			if result != tt.expected {
				t.Errorf("FloorShare(%d, %s) = %d, expected %d", tt.amount, tt.percent, result, tt.expected)
			}
		})
	}
}

func TestRoundShare(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		percent  string
		expected int64
	}{
		{"Exact", 1000000, "87.5", 875000},
		{"Half rounds up", 1000001, "87.5", 875001},
		{"Below half rounds down", 1000003, "90", 900003},
		{"Seventy percent", 1234567, "70", 864197},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundShare(tt.amount, decimal.RequireFromString(tt.percent))
			if result != tt.expected {
				t.Errorf("RoundShare(%d, %s) = %d, expected %d", tt.amount, tt.percent, result, tt.expected)
			}
		})
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		n        int
		expected int64
	}{
		{"Even split", 1000, 4, 250},
		{"Remainder dropped", 1003, 4, 250},
		{"Zero parts", 1000, 0, 0},
		{"Negative parts", 1000, -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := FloorDiv(tt.amount, tt.n); result != tt.expected {
				t.Errorf("FloorDiv(%d, %d) = %d, expected %d", tt.amount, tt.n, result, tt.expected)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		reference int64
		expected  float64
	}{
		{"Whole percent", 80000, 1000000, 8},
		{"Three places", 23437, 1000000, 2.344},
		{"Rounded half up", 12345, 1000000, 1.235},
		{"Zero reference", 100, 0, 0},
		{"Full", 700000, 700000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Percentage(tt.amount, tt.reference)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Percentage(%d, %d) = %v, expected %v", tt.amount, tt.reference, result, tt.expected)
			}
		})
	}
}

func TestRate(t *testing.T) {
	if got := Rate(1200, 12); got != 100 {
		t.Errorf("Rate(1200, 12) = %v, expected 100", got)
	}
	if got := Rate(1200, 0); got != 0 {
		t.Errorf("Rate(1200, 0) = %v, expected 0", got)
	}
}

func TestComplementAndApplyPercentage(t *testing.T) {
	if got := Complement(decimal.RequireFromString("12.5")); !got.Equal(decimal.RequireFromString("87.5")) {
		t.Errorf("Complement(12.5) = %s, expected 87.5", got)
	}
	if got := ApplyPercentage(1000000, decimal.RequireFromString("12.5")); got != 125000 {
		t.Errorf("ApplyPercentage(1000000, 12.5) = %v, expected 125000", got)
	}
}
