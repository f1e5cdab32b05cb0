// Package freetrade provides the record model and CSV decoder for the
// Freetrade activity export.
package freetrade

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownKind is returned when the Type column holds a value outside the closed set of kinds.
	ErrUnknownKind = errors.New("unknown transaction kind")
	// ErrUnknownDirection is returned when the "Buy / Sell" column is neither BUY nor SELL.
	ErrUnknownDirection = errors.New("unknown order direction")
)

// Kind is the transaction type of an export row.
type Kind int

const (
	KindUnknown Kind = iota
	Dividend
	InterestFromCash
	MonthlyStatement
	Order
	SippAnnualStatement
	SippPresaleIllustration
	TaxRelief
	TopUp
)

var kindNames = map[Kind]string{
	Dividend:                "DIVIDEND",
	InterestFromCash:        "INTEREST_FROM_CASH",
	MonthlyStatement:        "MONTHLY_STATEMENT",
	Order:                   "ORDER",
	SippAnnualStatement:     "SIPP_ANNUAL_STATEMENT",
	SippPresaleIllustration: "SIPP_PRESALE_ILLUSTRATION",
	TaxRelief:               "TAX_RELIEF",
	TopUp:                   "TOP_UP",
}

// String returns the export spelling of the kind (e.g. "TOP_UP").
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses the export spelling of a kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Direction is the side of an order.
type Direction int

const (
	Buy Direction = iota + 1
	Sell
)

// String returns "BUY" or "SELL".
func (d Direction) String() string {
	switch d {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection parses the "Buy / Sell" column.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Field names used when reporting a missing value.
const (
	FieldTotalAmount   = "total_amount"
	FieldPricePerShare = "price_per_share"
	FieldDirection     = "order_direction"
	FieldTicker        = "ticker"
	FieldQuantity      = "quantity"
)

// RequiredFields lists, per kind, the optional fields that must be present.
// Kinds missing from the map produce no ledger entry and require nothing.
var RequiredFields = map[Kind][]string{
	Dividend:         {FieldTotalAmount, FieldTicker},
	InterestFromCash: {FieldTotalAmount},
	TaxRelief:        {FieldTotalAmount},
	TopUp:            {FieldTotalAmount},
	Order:            {FieldDirection, FieldTicker, FieldQuantity, FieldPricePerShare, FieldTotalAmount},
}

// Record is one decoded row of the activity export.
type Record struct {
	Kind      Kind
	Timestamp time.Time

	TotalAmount   decimal.NullDecimal
	PricePerShare decimal.NullDecimal // in account currency
	Direction     *Direction
	Ticker        *string
	Quantity      decimal.NullDecimal
	FXFeeAmount   decimal.NullDecimal
	StampDuty     decimal.NullDecimal

	// Informational columns. They are decoded but never posted.
	Title                 string
	ISIN                  string
	OrderID               string
	AccountCurrency       string
	InstrumentCurrency    string
	FXRate                decimal.NullDecimal
	BaseFXRate            decimal.NullDecimal
	DividendEligibleQty   decimal.NullDecimal
	DividendPerShare      decimal.NullDecimal
	DividendGrossAmount   decimal.NullDecimal
	DividendNetAmount     decimal.NullDecimal
	DividendWithheldTaxes decimal.NullDecimal
}

// Has reports whether the named optional field is present.
func (r Record) Has(field string) bool {
	switch field {
	case FieldTotalAmount:
		return r.TotalAmount.Valid
	case FieldPricePerShare:
		return r.PricePerShare.Valid
	case FieldDirection:
		return r.Direction != nil
	case FieldTicker:
		return r.Ticker != nil
	case FieldQuantity:
		return r.Quantity.Valid
	}
	return false
}

// Missing returns the required fields of the record's kind that are absent, in declaration order.
func (r Record) Missing() []string {
	var missing []string
	for _, field := range RequiredFields[r.Kind] {
		if !r.Has(field) {
			missing = append(missing, field)
		}
	}
	return missing
}
