// Package records is the persistence boundary for intake records. Services
// depend on the narrow interfaces here; production wires the gorm-backed
// store and tests wire the deterministic in-memory one.
package records

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lesotho-epassport/backend/internal/models"
)

// ErrNotFound is returned when no record matches the given reference
var ErrNotFound = errors.New("record not found")

// ApplicationStore persists and retrieves passport applications
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplicationByReference(ctx context.Context, reference string) (*models.Application, error)
	// SampleReferences returns up to limit known references, newest first.
	// Used only by the debug aid on status-lookup misses.
	SampleReferences(ctx context.Context, limit int) ([]string, error)
}

// RenewalStore persists and retrieves passport renewals
type RenewalStore interface {
	CreateRenewal(ctx context.Context, renewal *models.Renewal) error
	GetRenewalByReference(ctx context.Context, reference string) (*models.Renewal, error)
}

// ArtifactStore tracks uploaded blobs so abandoned ones can be reclaimed
type ArtifactStore interface {
	CreateArtifact(ctx context.Context, artifact *models.Artifact) error
	// ClaimArtifacts marks the rows with the given URLs as referenced by a
	// persisted record, which exempts them from cleanup.
	ClaimArtifacts(ctx context.Context, urls []string) error
	UnclaimedBefore(ctx context.Context, cutoff time.Time) ([]models.Artifact, error)
	DeleteArtifacts(ctx context.Context, ids []uuid.UUID) error
}

// UpdateStore serves the public notices page
type UpdateStore interface {
	ListUpdates(ctx context.Context) ([]models.Update, error)
}

// Store is the full persistence surface, implemented by both the gorm
// store and the in-memory fake.
type Store interface {
	ApplicationStore
	RenewalStore
	ArtifactStore
	UpdateStore
}
