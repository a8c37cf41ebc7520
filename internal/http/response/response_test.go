package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/http/response"
	"github.com/MrJamesThe3rd/tally/internal/invoice"
)

func TestStatusFor(t *testing.T) {
	type testCase struct {
		name string
		err  error
		want int
	}

	tests := []testCase{
		{name: "NotFound", err: fmt.Errorf("getting invoice: %w", invoice.ErrNotFound), want: http.StatusNotFound},
		{name: "Validation", err: fmt.Errorf("%w: bad currency", invoice.ErrValidation), want: http.StatusUnprocessableEntity},
		{name: "TagError", err: &invoice.TagError{ItemID: uuid.New(), Index: 1, Name: "division"}, want: http.StatusUnprocessableEntity},
		{name: "NotModifiable", err: invoice.ErrNotModifiable, want: http.StatusConflict},
		{name: "NotAdjustable", err: invoice.ErrNotAdjustable, want: http.StatusConflict},
		{name: "InvalidTransition", err: invoice.ErrInvalidTransition, want: http.StatusConflict},
		{name: "Computation", err: &invoice.ComputationError{InvoiceID: uuid.New(), Op: "derive", Err: errors.New("boom")}, want: http.StatusInternalServerError},
		{name: "ComputationNotFound", err: &invoice.ComputationError{InvoiceID: uuid.New(), Op: "load", Err: invoice.ErrNotFound}, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, response.StatusFor(tt.err))
		})
	}
}

func TestError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	response.Error(rec, errors.New("connection refused on 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
