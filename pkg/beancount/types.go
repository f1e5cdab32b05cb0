// Package beancount provides the ledger entry model, its text rendering and
// a repository for monthly Beancount files.
package beancount

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction flags.
const (
	FlagCleared = "*"
	FlagPending = "!"
)

// postingIndent prefixes every posting line of an entry.
const postingIndent = "    "

// Transaction represents a Beancount transaction.
type Transaction struct {
	Date      time.Time // only the calendar date in the time's own location is rendered
	Flag      string    // FlagCleared or FlagPending
	Narration string
	Postings  []Posting
}

// Cost is a per-unit cost annotation, rendered as "{number currency}".
type Cost struct {
	Number   decimal.Decimal
	Currency string
}

// Posting represents a posting in a Beancount transaction.
type Posting struct {
	Account  string          // e.g. "Assets:UK:Freetrade:ISA:Checking"
	Amount   decimal.Decimal // signed; positive is a debit
	Currency string          // currency or commodity symbol
	Cost     *Cost           // optional
}

// String renders the transaction: a header line, then one line per posting
// indented by four spaces. The result ends with a newline.
func (t Transaction) String() string {
	var sb strings.Builder

	sb.WriteString(t.Date.Format("2006-01-02"))
	sb.WriteString(" ")
	sb.WriteString(t.Flag)
	sb.WriteString(" ")
	sb.WriteString(quote(t.Narration))
	sb.WriteString("\n")

	for _, p := range t.Postings {
		sb.WriteString(postingIndent)
		sb.WriteString(p.String())
		sb.WriteString("\n")
	}

	return sb.String()
}

// String renders a posting without indentation.
func (p Posting) String() string {
	s := p.Account + " " + p.Amount.String() + " " + p.Currency
	if p.Cost != nil {
		s += " {" + p.Cost.Number.String() + " " + p.Cost.Currency + "}"
	}
	return s
}

// Weight returns the balancing contribution of the posting: units at cost
// when a cost is given, the units themselves otherwise.
func (p Posting) Weight() (decimal.Decimal, string) {
	if p.Cost != nil {
		return p.Amount.Mul(p.Cost.Number), p.Cost.Currency
	}
	return p.Amount, p.Currency
}

// Weights sums posting weights per currency.
func (t Transaction) Weights() map[string]decimal.Decimal {
	weights := make(map[string]decimal.Decimal)
	for _, p := range t.Postings {
		w, cur := p.Weight()
		weights[cur] = weights[cur].Add(w)
	}
	return weights
}

// Balanced reports whether every per-currency weight sums to zero.
func (t Transaction) Balanced() bool {
	for _, w := range t.Weights() {
		if !w.IsZero() {
			return false
		}
	}
	return true
}

// quote renders a Beancount string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
