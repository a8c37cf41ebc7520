package remittance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// decimalStyle tells how thousands and fraction separators are written.
type decimalStyle int

const (
	// decimalComma is European style, "1.234,56".
	decimalComma decimalStyle = iota
	// decimalDot is "1,234.56".
	decimalDot
)

// Profile describes the column layout of a remittance advice export.
type Profile struct {
	Name         string
	DateCol      string
	InvoiceCol   string
	AmountCol    string
	ReferenceCol string
	DateLayout   string
	Decimal      decimalStyle
}

func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.InvoiceCol, p.AmountCol, p.ReferenceCol}
}

func (p Profile) parseAmount(s string) (decimal.Decimal, error) {
	var clean string

	switch p.Decimal {
	case decimalComma:
		clean = strings.ReplaceAll(s, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	default:
		clean = strings.ReplaceAll(s, ",", "")
	}

	return decimal.NewFromString(strings.ReplaceAll(clean, " ", ""))
}

// profiles are tried in order during header detection.
var profiles = []Profile{
	{
		Name:         "pt",
		DateCol:      "Data",
		InvoiceCol:   "Fatura",
		AmountCol:    "Montante",
		ReferenceCol: "Referência",
		DateLayout:   "02-01-2006",
		Decimal:      decimalComma,
	},
	{
		Name:         "en",
		DateCol:      "Date",
		InvoiceCol:   "Invoice",
		AmountCol:    "Amount",
		ReferenceCol: "Reference",
		DateLayout:   "2006-01-02",
		Decimal:      decimalDot,
	},
}
