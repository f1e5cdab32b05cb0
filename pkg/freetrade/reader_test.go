package freetrade

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Title,Type,Timestamp,Account Currency,Total Amount,Buy / Sell,Ticker,ISIN,Price per Share in Account Currency,Stamp Duty,Quantity,Venue,Order ID,Order Type,Instrument Currency,Total Shares Amount,Price per Share,FX Rate,Base FX Rate,FX Fee (BPS),FX Fee Amount,Dividend Ex Date,Dividend Pay Date,Dividend Eligible Quantity,Dividend Amount Per Share,Dividend Gross Distribution Amount,Dividend Net Distribution Amount,Dividend Withheld Tax Percentage,Dividend Withheld Tax Amount\n"

const sample = header +
	"Top up,TOP_UP,2020-01-02T03:04:05.000Z,GBP,25.50,,,,,,,,,,,,,,,,,,,,,,,,\n" +
	"Apple,ORDER,2020-01-03T10:00:00.000Z,GBP,90.15,BUY,AAPL,US0378331005,30.00,0.00,3,NYSE,ABC123,BASIC,USD,117.00,39.00,1.3,1.3,15,0.15,,,,,,,,\n" +
	"Statement,MONTHLY_STATEMENT,2020-01-31T00:00:00+01:00,GBP,,,,,,,,,,,,,,,,,,,,,,,,,\n" +
	"Apple,DIVIDEND,2020-02-14T00:00:00Z,GBP,0.46,,AAPL,US0378331005,,,,,,,USD,,,,,,,2020-02-07,2020-02-13,3,0.18,0.54,0.46,15,0.08\n"

func TestReadRows(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	topUp := rows[0]
	assert.Equal(t, 2, topUp.Line)
	assert.Equal(t, TopUp, topUp.Record.Kind)
	assert.True(t, topUp.Record.Timestamp.Equal(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.True(t, topUp.Record.TotalAmount.Valid)
	assert.Equal(t, "25.5", topUp.Record.TotalAmount.Decimal.String())
	assert.Nil(t, topUp.Record.Ticker)
	assert.Nil(t, topUp.Record.Direction)
	assert.False(t, topUp.Record.Quantity.Valid)
	assert.False(t, topUp.Record.StampDuty.Valid)

	order := rows[1].Record
	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, Order, order.Kind)
	require.NotNil(t, order.Direction)
	assert.Equal(t, Buy, *order.Direction)
	require.NotNil(t, order.Ticker)
	assert.Equal(t, "AAPL", *order.Ticker)
	assert.Equal(t, "30", order.PricePerShare.Decimal.String())
	assert.Equal(t, "3", order.Quantity.Decimal.String())
	assert.Equal(t, "0.15", order.FXFeeAmount.Decimal.String())
	require.True(t, order.StampDuty.Valid)
	assert.True(t, order.StampDuty.Decimal.IsZero())
	assert.Equal(t, "ABC123", order.OrderID)
	assert.Equal(t, "USD", order.InstrumentCurrency)
	assert.Empty(t, order.Missing())

	statement := rows[2].Record
	assert.Equal(t, MonthlyStatement, statement.Kind)
	_, offset := statement.Timestamp.Zone()
	assert.Equal(t, 3600, offset)

	dividend := rows[3].Record
	assert.Equal(t, Dividend, dividend.Kind)
	assert.Equal(t, "0.08", dividend.DividendWithheldTaxes.Decimal.String())
	assert.Equal(t, "0.54", dividend.DividendGrossAmount.Decimal.String())
}

func TestReadRowsFingerprints(t *testing.T) {
	first, err := ReadRows(strings.NewReader(sample))
	require.NoError(t, err)
	second, err := ReadRows(strings.NewReader(sample))
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := range first {
		assert.Len(t, first[i].Fingerprint, 64)
		assert.Equal(t, first[i].Fingerprint, second[i].Fingerprint)
		assert.False(t, seen[first[i].Fingerprint], "duplicate fingerprint on line %d", first[i].Line)
		seen[first[i].Fingerprint] = true
	}
}

func TestReadRowsErrors(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		contains string
	}{
		{
			name:     "unknown kind",
			row:      "x,WITHDRAWAL,2020-01-02T03:04:05Z,GBP,1,,,,,,,,,,,,,,,,,,,,,,,,\n",
			contains: "unknown transaction kind",
		},
		{
			name:     "timestamp without zone",
			row:      "x,TOP_UP,2020-01-02 03:04:05,GBP,1,,,,,,,,,,,,,,,,,,,,,,,,\n",
			contains: "invalid Timestamp",
		},
		{
			name:     "bad amount",
			row:      "x,TOP_UP,2020-01-02T03:04:05Z,GBP,one,,,,,,,,,,,,,,,,,,,,,,,,\n",
			contains: "invalid Total Amount",
		},
		{
			name:     "unknown direction",
			row:      "x,ORDER,2020-01-02T03:04:05Z,GBP,1,HOLD,FOO,,1,,1,,,,,,,,,,,,,,,,,,\n",
			contains: "unknown order direction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRows(strings.NewReader(header + tt.row))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
