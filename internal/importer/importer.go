package importer

import (
	"io"

	"github.com/MrJamesThe3rd/tally/internal/payment"
)

type Format string

const (
	FormatRemittance Format = "remittance"
)

// Importer turns an uploaded file into payments ready to post.
type Importer interface {
	Parse(r io.Reader) ([]payment.PostParams, error)
}
