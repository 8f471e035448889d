package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/timex"
)

// Scanner turns a captured card image into contact fields.
type Scanner interface {
	Scan(ctx context.Context, imageRef string) (models.ContactFormData, error)
}

// StubScanner stands in for card recognition: after Delay it returns the
// same sample card for any image.
type StubScanner struct {
	Delay time.Duration
}

// SampleCard is what StubScanner recognizes.
func SampleCard() models.ContactFormData {
	return models.ContactFormData{
		Name:     "John Smith",
		Company:  "Acme Corporation",
		Email:    "john.smith@acme.com",
		Phone:    "+1 (555) 123-4567",
		Position: "Sales Director",
		Website:  "www.acmecorp.com",
		Address:  "123 Business Ave, San Francisco, CA 94107",
		Notes:    "",
		Tags:     []string{"Sales", "Technology"},
	}
}

// Scan fails with common.ErrCaptureFailed for an empty image reference and
// with common.ErrProcessingFailed when ctx ends before recognition finishes.
func (s StubScanner) Scan(ctx context.Context, imageRef string) (models.ContactFormData, error) {
	if strings.TrimSpace(imageRef) == "" {
		return models.ContactFormData{}, common.ErrCaptureFailed
	}

	if err := timex.Sleep(ctx, s.Delay); err != nil {
		return models.ContactFormData{}, fmt.Errorf("%w: %w", common.ErrProcessingFailed, err)
	}

	return SampleCard(), nil
}
