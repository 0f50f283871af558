package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"DrawdownLens/internal/model"
)

func TestFormatFinancial(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{21448000000, "21.45B"},
		{-1500000000, "-1.50B"},
		{2500000, "2.50M"},
		{999999, "1000.00K"},
		{1234, "1.23K"},
		{12.5, "12.50"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFinancial(tt.in), "%v", tt.in)
	}
}

func TestRowLabel(t *testing.T) {
	assert.Equal(t, "", RowLabel(model.PriceLevelRow{IsGrid: true}))
	assert.Equal(t, "Current price", RowLabel(model.PriceLevelRow{IsCurrent: true}))
	assert.Equal(t, "52-week low", RowLabel(model.PriceLevelRow{IsLow52w: true}))
	assert.Equal(t, "Year low", RowLabel(model.PriceLevelRow{IsYearLow: true}))
}
