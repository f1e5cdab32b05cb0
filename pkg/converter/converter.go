// Package converter turns Freetrade activity records into Beancount entries.
package converter

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/beancount"
	"github.com/shunichi-ikebuchi/freetrade-beancount/pkg/freetrade"
)

// Account roots.
const (
	rootAssets   = "Assets"
	rootIncome   = "Income"
	rootExpenses = "Expenses"
)

// credit describes the entry of a kind that only moves cash into the account.
type credit struct {
	narration string
	leaf      string
}

var credits = map[freetrade.Kind]credit{
	freetrade.Dividend:         {narration: "Dividend", leaf: "Dividend"},
	freetrade.InterestFromCash: {narration: "Interest from cash", leaf: "Interest"},
	freetrade.TaxRelief:        {narration: "Tax Relief", leaf: "TaxRelief"},
	freetrade.TopUp:            {narration: "Top Up", leaf: "TopUp"},
}

// Converter converts Freetrade records to Beancount transactions.
// It holds no mutable state and is safe for concurrent use.
type Converter struct {
	profile Profile
}

// NewConverter creates a new Converter. Empty profile fields take their defaults.
func NewConverter(profile Profile) *Converter {
	return &Converter{profile: profile.withDefaults()}
}

var defaultConverter = NewConverter(DefaultProfile())

// Convert converts a record with the default profile. See Converter.Convert.
func Convert(rec freetrade.Record, account string, now time.Time) (*beancount.Transaction, error) {
	return defaultConverter.Convert(rec, account, now)
}

// Format converts a record with the default profile. See Converter.Format.
func Format(rec freetrade.Record, account string, now time.Time) (string, error) {
	return defaultConverter.Format(rec, account, now)
}

// Format renders the entry of a record, or "" when the record's kind
// carries no value. now decides between the cleared and pending flag.
func (c *Converter) Format(rec freetrade.Record, account string, now time.Time) (string, error) {
	txn, err := c.Convert(rec, account, now)
	if err != nil || txn == nil {
		return "", err
	}
	return txn.String(), nil
}

// Convert builds the entry of a record. It returns nil and no error for
// statement kinds, which carry no value. A record lacking a field its kind
// requires is rejected as a whole; no partial entry is ever returned.
func (c *Converter) Convert(rec freetrade.Record, account string, now time.Time) (*beancount.Transaction, error) {
	switch rec.Kind {
	case freetrade.MonthlyStatement, freetrade.SippAnnualStatement, freetrade.SippPresaleIllustration:
		return nil, nil
	case freetrade.Dividend, freetrade.InterestFromCash, freetrade.TaxRelief, freetrade.TopUp:
		if err := checkRequired(rec); err != nil {
			return nil, err
		}
		return c.convertCredit(rec, account, now), nil
	case freetrade.Order:
		if rec.Direction == nil {
			return nil, &InvalidCombinationError{Kind: rec.Kind, Field: freetrade.FieldDirection, Reason: "order has no direction"}
		}
		if *rec.Direction != freetrade.Buy && *rec.Direction != freetrade.Sell {
			return nil, &InvalidCombinationError{Kind: rec.Kind, Field: freetrade.FieldDirection, Reason: "unsupported direction " + rec.Direction.String()}
		}
		if err := checkRequired(rec); err != nil {
			return nil, err
		}
		return c.convertOrder(rec, account, now), nil
	}
	return nil, &InvalidCombinationError{Kind: rec.Kind, Reason: "unsupported kind"}
}

func checkRequired(rec freetrade.Record) error {
	if missing := rec.Missing(); len(missing) > 0 {
		return &MissingFieldError{Kind: rec.Kind, Field: missing[0]}
	}
	return nil
}

func (c *Converter) convertCredit(rec freetrade.Record, account string, now time.Time) *beancount.Transaction {
	cr := credits[rec.Kind]
	amount := rec.TotalAmount.Decimal

	income := []string{}
	if rec.Kind == freetrade.Dividend {
		income = append(income, AccountSegment(*rec.Ticker))
	}
	income = append(income, cr.leaf)

	return &beancount.Transaction{
		Date:      rec.Timestamp,
		Flag:      flag(rec.Timestamp, now),
		Narration: cr.narration,
		Postings: []beancount.Posting{
			c.cash(rootAssets, account, amount, "Checking"),
			c.cash(rootIncome, account, amount.Neg(), income...),
		},
	}
}

func (c *Converter) convertOrder(rec freetrade.Record, account string, now time.Time) *beancount.Transaction {
	ticker := *rec.Ticker

	narration := "Buy " + ticker
	units := rec.Quantity.Decimal
	cash := rec.TotalAmount.Decimal.Neg()
	if *rec.Direction == freetrade.Sell {
		narration = "Sell " + ticker
		units = units.Neg()
		cash = cash.Neg()
	}

	postings := []beancount.Posting{{
		Account:  c.account(rootAssets, account, AccountSegment(ticker)),
		Amount:   units,
		Currency: UnitSymbol(ticker),
		Cost:     &beancount.Cost{Number: rec.PricePerShare.Decimal, Currency: c.profile.Currency},
	}}
	if rec.FXFeeAmount.Valid {
		postings = append(postings, c.cash(rootExpenses, account, rec.FXFeeAmount.Decimal, "Fees"))
	}
	if rec.StampDuty.Valid && !rec.StampDuty.Decimal.IsZero() {
		postings = append(postings, c.cash(rootExpenses, account, rec.StampDuty.Decimal, "StampDuty"))
	}
	postings = append(postings, c.cash(rootAssets, account, cash, "Checking"))

	return &beancount.Transaction{
		Date:      rec.Timestamp,
		Flag:      flag(rec.Timestamp, now),
		Narration: narration,
		Postings:  postings,
	}
}

// cash builds a posting in the profile currency.
func (c *Converter) cash(root, account string, amount decimal.Decimal, segments ...string) beancount.Posting {
	return beancount.Posting{
		Account:  c.account(root, account, segments...),
		Amount:   amount,
		Currency: c.profile.Currency,
	}
}

// account joins root, institution, the account name and segments into an account path.
func (c *Converter) account(root, account string, segments ...string) string {
	parts := append([]string{root, c.profile.Institution, account}, segments...)
	return strings.Join(parts, ":")
}

// flag marks entries dated after now as pending.
func flag(ts, now time.Time) string {
	if ts.After(now) {
		return beancount.FlagPending
	}
	return beancount.FlagCleared
}
