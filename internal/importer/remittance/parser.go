package remittance

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/payment"
)

// Parser reads remittance advice CSV files, one row per invoice settled,
// and groups rows that share a reference into a single payment.
type Parser struct {
	status invoice.PaymentStatus
}

// NewParser returns a parser that records payments with the given status.
// An empty status means received.
func NewParser(status invoice.PaymentStatus) *Parser {
	if status == "" {
		status = invoice.PaymentReceived
	}

	return &Parser{status: status}
}

func (p *Parser) Parse(r io.Reader) ([]payment.PostParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("%w: no matching remittance format found", invoice.ErrValidation)
	}

	slog.Debug("remittance format detected", "profile", profile.Name, "charset", charset)

	return p.parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows builds one payment per reference, in order of first appearance.
// Rows without a reference each become their own payment. Rows without a
// parseable date are skipped as footers.
func (p *Parser) parseRows(profile *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]payment.PostParams, error) {
	var out []payment.PostParams

	byRef := make(map[string]int)

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, err := time.Parse(profile.DateLayout, cellValue(row, cols[profile.DateCol]))
		if err != nil {
			continue
		}

		invoiceID, err := uuid.Parse(cellValue(row, cols[profile.InvoiceCol]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid invoice id", invoice.ErrValidation, rowNum)
		}

		amount, err := profile.parseAmount(cellValue(row, cols[profile.AmountCol]))
		if err != nil || amount.IsZero() {
			return nil, fmt.Errorf("%w: row %d: invalid amount", invoice.ErrValidation, rowNum)
		}

		ref := cellValue(row, cols[profile.ReferenceCol])
		app := payment.ApplicationParams{InvoiceID: &invoiceID, Amount: amount}

		if idx, ok := byRef[ref]; ok && ref != "" {
			pp := &out[idx]
			pp.Amount = pp.Amount.Add(amount)
			pp.Applications = append(pp.Applications, app)

			if date.Before(pp.EffectiveDate) {
				pp.EffectiveDate = date
			}

			continue
		}

		byRef[ref] = len(out)
		out = append(out, payment.PostParams{
			Status:        p.status,
			Amount:        amount,
			EffectiveDate: date,
			Reference:     ref,
			Applications:  []payment.ApplicationParams{app},
		})
	}

	return out, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// Total sums the amounts of parsed payments.
func Total(params []payment.PostParams) decimal.Decimal {
	sum := decimal.Zero

	for _, p := range params {
		sum = sum.Add(p.Amount)
	}

	return sum
}
