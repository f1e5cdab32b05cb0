package freetrade

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// rawRow mirrors the columns of the activity export. Every cell is kept as
// text so that empty cells can be told apart from zero values.
type rawRow struct {
	Title                 string `csv:"Title"`
	Type                  string `csv:"Type"`
	Timestamp             string `csv:"Timestamp"`
	AccountCurrency       string `csv:"Account Currency"`
	TotalAmount           string `csv:"Total Amount"`
	BuySell               string `csv:"Buy / Sell"`
	Ticker                string `csv:"Ticker"`
	ISIN                  string `csv:"ISIN"`
	PricePerShareAccount  string `csv:"Price per Share in Account Currency"`
	StampDuty             string `csv:"Stamp Duty"`
	Quantity              string `csv:"Quantity"`
	OrderID               string `csv:"Order ID"`
	InstrumentCurrency    string `csv:"Instrument Currency"`
	FXRate                string `csv:"FX Rate"`
	BaseFXRate            string `csv:"Base FX Rate"`
	FXFeeAmount           string `csv:"FX Fee Amount"`
	DividendEligibleQty   string `csv:"Dividend Eligible Quantity"`
	DividendPerShare      string `csv:"Dividend Amount Per Share"`
	DividendGrossAmount   string `csv:"Dividend Gross Distribution Amount"`
	DividendNetAmount     string `csv:"Dividend Net Distribution Amount"`
	DividendWithheldTaxes string `csv:"Dividend Withheld Tax Amount"`
}

// Row is a decoded record together with its position in the export.
type Row struct {
	Line        int    // 1-based CSV line, the header being line 1
	Fingerprint string // SHA-256 of the raw cells, stable across exports
	Record      Record
}

// ReadRows decodes a Freetrade activity export. Rows are returned in input order.
func ReadRows(r io.Reader) ([]Row, error) {
	var raws []*rawRow
	if err := gocsv.Unmarshal(r, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	rows := make([]Row, 0, len(raws))
	for i, raw := range raws {
		line := i + 2
		record, err := raw.record()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, Row{
			Line:        line,
			Fingerprint: raw.fingerprint(),
			Record:      record,
		})
	}
	return rows, nil
}

func (raw *rawRow) record() (Record, error) {
	kind, err := ParseKind(strings.TrimSpace(raw.Type))
	if err != nil {
		return Record{}, err
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(raw.Timestamp))
	if err != nil {
		return Record{}, fmt.Errorf("invalid Timestamp %q: %w", raw.Timestamp, err)
	}

	rec := Record{
		Kind:               kind,
		Timestamp:          ts,
		Title:              strings.TrimSpace(raw.Title),
		ISIN:               strings.TrimSpace(raw.ISIN),
		OrderID:            strings.TrimSpace(raw.OrderID),
		AccountCurrency:    strings.TrimSpace(raw.AccountCurrency),
		InstrumentCurrency: strings.TrimSpace(raw.InstrumentCurrency),
	}

	if s := strings.TrimSpace(raw.BuySell); s != "" {
		d, err := ParseDirection(s)
		if err != nil {
			return Record{}, err
		}
		rec.Direction = &d
	}
	if s := strings.TrimSpace(raw.Ticker); s != "" {
		rec.Ticker = &s
	}

	decimals := []struct {
		column string
		value  string
		dst    *decimal.NullDecimal
	}{
		{"Total Amount", raw.TotalAmount, &rec.TotalAmount},
		{"Price per Share in Account Currency", raw.PricePerShareAccount, &rec.PricePerShare},
		{"Quantity", raw.Quantity, &rec.Quantity},
		{"FX Fee Amount", raw.FXFeeAmount, &rec.FXFeeAmount},
		{"Stamp Duty", raw.StampDuty, &rec.StampDuty},
		{"FX Rate", raw.FXRate, &rec.FXRate},
		{"Base FX Rate", raw.BaseFXRate, &rec.BaseFXRate},
		{"Dividend Eligible Quantity", raw.DividendEligibleQty, &rec.DividendEligibleQty},
		{"Dividend Amount Per Share", raw.DividendPerShare, &rec.DividendPerShare},
		{"Dividend Gross Distribution Amount", raw.DividendGrossAmount, &rec.DividendGrossAmount},
		{"Dividend Net Distribution Amount", raw.DividendNetAmount, &rec.DividendNetAmount},
		{"Dividend Withheld Tax Amount", raw.DividendWithheldTaxes, &rec.DividendWithheldTaxes},
	}
	for _, d := range decimals {
		v, err := parseOptionalDecimal(d.value)
		if err != nil {
			return Record{}, fmt.Errorf("invalid %s %q: %w", d.column, d.value, err)
		}
		*d.dst = v
	}

	return rec, nil
}

// parseOptionalDecimal treats an empty cell as absent.
func parseOptionalDecimal(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func (raw *rawRow) fingerprint() string {
	cells := []string{
		raw.Title, raw.Type, raw.Timestamp, raw.AccountCurrency, raw.TotalAmount,
		raw.BuySell, raw.Ticker, raw.ISIN, raw.PricePerShareAccount, raw.StampDuty,
		raw.Quantity, raw.OrderID, raw.InstrumentCurrency, raw.FXRate, raw.BaseFXRate,
		raw.FXFeeAmount, raw.DividendEligibleQty, raw.DividendPerShare,
		raw.DividendGrossAmount, raw.DividendNetAmount, raw.DividendWithheldTaxes,
	}
	sum := sha256.Sum256([]byte(strings.Join(cells, "\x1f")))
	return hex.EncodeToString(sum[:])
}
