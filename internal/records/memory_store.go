package records

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lesotho-epassport/backend/internal/models"
)

// MemoryStore is a deterministic in-memory Store used in tests. Records
// are kept in insertion order so sampling and listing are reproducible.
type MemoryStore struct {
	mu           sync.RWMutex
	applications []models.Application
	renewals     []models.Renewal
	artifacts    []models.Artifact
	updates      []models.Update
	now          func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// SetClock overrides the store's clock, so tests control timestamps
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// CreateApplication stores a copy of the application
func (s *MemoryStore) CreateApplication(ctx context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = s.now()
		app.UpdatedAt = app.CreatedAt
	}
	if app.Status == "" {
		app.Status = models.StatusProcessing
	}
	s.applications = append(s.applications, *app)
	return nil
}

// GetApplicationByReference fetches an application by reference
func (s *MemoryStore) GetApplicationByReference(ctx context.Context, reference string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.applications {
		if s.applications[i].Reference == reference {
			app := s.applications[i]
			return &app, nil
		}
	}
	return nil, ErrNotFound
}

// SampleReferences returns up to limit references, newest first
func (s *MemoryStore) SampleReferences(ctx context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []string
	for i := len(s.applications) - 1; i >= 0 && len(refs) < limit; i-- {
		refs = append(refs, s.applications[i].Reference)
	}
	return refs, nil
}

// CreateRenewal stores a copy of the renewal
func (s *MemoryStore) CreateRenewal(ctx context.Context, renewal *models.Renewal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renewal.ID == uuid.Nil {
		renewal.ID = uuid.New()
	}
	if renewal.CreatedAt.IsZero() {
		renewal.CreatedAt = s.now()
		renewal.UpdatedAt = renewal.CreatedAt
	}
	if renewal.Status == "" {
		renewal.Status = models.StatusProcessing
	}
	s.renewals = append(s.renewals, *renewal)
	return nil
}

// GetRenewalByReference fetches a renewal by reference
func (s *MemoryStore) GetRenewalByReference(ctx context.Context, reference string) (*models.Renewal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.renewals {
		if s.renewals[i].Reference == reference {
			renewal := s.renewals[i]
			return &renewal, nil
		}
	}
	return nil, ErrNotFound
}

// CreateArtifact records an uploaded blob as unclaimed
func (s *MemoryStore) CreateArtifact(ctx context.Context, artifact *models.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if artifact.ID == uuid.Nil {
		artifact.ID = uuid.New()
	}
	if artifact.CreatedAt.IsZero() {
		artifact.CreatedAt = s.now()
	}
	s.artifacts = append(s.artifacts, *artifact)
	return nil
}

// ClaimArtifacts marks artifacts with the given URLs as claimed
func (s *MemoryStore) ClaimArtifacts(ctx context.Context, urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	claimed := make(map[string]bool, len(urls))
	for _, u := range urls {
		claimed[u] = true
	}
	for i := range s.artifacts {
		if claimed[s.artifacts[i].URL] {
			s.artifacts[i].Claimed = true
		}
	}
	return nil
}

// UnclaimedBefore lists unclaimed artifacts uploaded before the cutoff
func (s *MemoryStore) UnclaimedBefore(ctx context.Context, cutoff time.Time) ([]models.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Artifact
	for _, a := range s.artifacts {
		if !a.Claimed && a.CreatedAt.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out, nil
}

// DeleteArtifacts removes artifact rows by ID
func (s *MemoryStore) DeleteArtifacts(ctx context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.artifacts[:0]
	for _, a := range s.artifacts {
		if !drop[a.ID] {
			kept = append(kept, a)
		}
	}
	s.artifacts = kept
	return nil
}

// AddUpdate seeds a notice; used by tests and local tooling
func (s *MemoryStore) AddUpdate(update models.Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if update.ID == uuid.Nil {
		update.ID = uuid.New()
	}
	s.updates = append(s.updates, update)
}

// ListUpdates returns all notices, newest first
func (s *MemoryStore) ListUpdates(ctx context.Context) ([]models.Update, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Update, len(s.updates))
	copy(out, s.updates)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ApplicationCount reports how many applications have been persisted
func (s *MemoryStore) ApplicationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.applications)
}

// ArtifactByURL returns the artifact row for a URL, if recorded
func (s *MemoryStore) ArtifactByURL(url string) (models.Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.artifacts {
		if a.URL == url {
			return a, true
		}
	}
	return models.Artifact{}, false
}
