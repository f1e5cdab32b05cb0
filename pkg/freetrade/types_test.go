package freetrade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for kind, name := range kindNames {
		got, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, kind, got)
		assert.Equal(t, name, kind.String())
	}

	_, err := ParseKind("top_up")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "Kind(0)", KindUnknown.String())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("BUY")
	require.NoError(t, err)
	assert.Equal(t, Buy, d)

	d, err = ParseDirection("SELL")
	require.NoError(t, err)
	assert.Equal(t, Sell, d)

	_, err = ParseDirection("Buy")
	assert.ErrorIs(t, err, ErrUnknownDirection)
}

func TestRecordMissing(t *testing.T) {
	ticker := "FOO"
	buy := Buy

	tests := []struct {
		name     string
		record   Record
		expected []string
	}{
		{"empty order", Record{Kind: Order}, []string{FieldDirection, FieldTicker, FieldQuantity, FieldPricePerShare, FieldTotalAmount}},
		{
			"complete order",
			Record{
				Kind:          Order,
				Direction:     &buy,
				Ticker:        &ticker,
				Quantity:      decimal.NewNullDecimal(decimal.NewFromInt(1)),
				PricePerShare: decimal.NewNullDecimal(decimal.NewFromInt(2)),
				TotalAmount:   decimal.NewNullDecimal(decimal.NewFromInt(2)),
			},
			nil,
		},
		{"dividend without ticker", Record{Kind: Dividend, TotalAmount: decimal.NewNullDecimal(decimal.Zero)}, []string{FieldTicker}},
		{"top up", Record{Kind: TopUp}, []string{FieldTotalAmount}},
		{"statement", Record{Kind: MonthlyStatement}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.Missing())
		})
	}
}
