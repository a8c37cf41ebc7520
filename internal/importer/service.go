package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/tally/internal/importer/remittance"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/payment"
)

// Poster posts parsed payments.
type Poster interface {
	PostBatch(ctx context.Context, params []payment.PostParams) (*payment.BatchResult, error)
}

type Service struct {
	importers map[Format]Importer
	poster    Poster
}

func NewService(poster Poster) *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatRemittance: remittance.NewParser(invoice.PaymentReceived),
		},
		poster: poster,
	}
}

// Parse reads r with the importer registered for format.
func (s *Service) Parse(format Format, r io.Reader) ([]payment.PostParams, error) {
	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("%w: unknown import format: %s", invoice.ErrValidation, format)
	}

	return importer.Parse(r)
}

// Import parses r and posts every payment found in it.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*payment.BatchResult, error) {
	params, err := s.Parse(format, r)
	if err != nil {
		return nil, err
	}

	return s.poster.PostBatch(ctx, params)
}
