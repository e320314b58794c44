// Package status resolves a public reference to the read-only StatusView
// shown on the tracking page.
package status

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lesotho-epassport/backend/internal/models"
	"github.com/lesotho-epassport/backend/internal/records"
)

var (
	// ErrInvalidInput means the reference was blank after trimming. The
	// store is never consulted for blank input.
	ErrInvalidInput = errors.New("reference is required")

	// ErrNotFound means no application or renewal carries the reference
	ErrNotFound = errors.New("no record found for reference")
)

// Service answers status lookups against the records store
type Service struct {
	apps     records.ApplicationStore
	renewals records.RenewalStore

	// debugSamples attaches a few known references to misses. Development
	// aid; off unless explicitly enabled in config.
	debugSamples bool
}

// NewService creates a status lookup service
func NewService(apps records.ApplicationStore, renewals records.RenewalStore, debugSamples bool) *Service {
	return &Service{apps: apps, renewals: renewals, debugSamples: debugSamples}
}

// Lookup resolves a reference to its StatusView. The reference is trimmed
// first; applications are checked before renewals. A lookup can only miss
// entirely: references are unique across both tables by construction.
func (s *Service) Lookup(ctx context.Context, reference string) (*models.StatusView, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, ErrInvalidInput
	}

	app, err := s.apps.GetApplicationByReference(ctx, reference)
	if err == nil {
		return &models.StatusView{
			Reference:   app.Reference,
			Status:      app.Status,
			Message:     app.Status.Message(),
			SubmittedAt: app.CreatedAt,
			UpdatedAt:   app.UpdatedAt,
		}, nil
	}
	if !errors.Is(err, records.ErrNotFound) {
		return nil, fmt.Errorf("status lookup: %w", err)
	}

	renewal, err := s.renewals.GetRenewalByReference(ctx, reference)
	if err == nil {
		return &models.StatusView{
			Reference:   renewal.Reference,
			Status:      renewal.Status,
			Message:     renewal.Status.Message(),
			SubmittedAt: renewal.CreatedAt,
			UpdatedAt:   renewal.UpdatedAt,
		}, nil
	}
	if !errors.Is(err, records.ErrNotFound) {
		return nil, fmt.Errorf("status lookup: %w", err)
	}

	return nil, ErrNotFound
}

// SampleReferences returns a handful of known references for the debug
// aid on misses. Returns nil when the aid is disabled.
func (s *Service) SampleReferences(ctx context.Context) []string {
	if !s.debugSamples {
		return nil
	}
	refs, err := s.apps.SampleReferences(ctx, 5)
	if err != nil {
		return nil
	}
	return refs
}
