package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lesotho-epassport/backend/internal/models"
)

// GormStore is the postgres-backed Store implementation
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database handle
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateApplication inserts a new application row
func (s *GormStore) CreateApplication(ctx context.Context, app *models.Application) error {
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// GetApplicationByReference fetches an application by its public reference
func (s *GormStore) GetApplicationByReference(ctx context.Context, reference string) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).Where("reference = ?", reference).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query application: %w", err)
	}
	return &app, nil
}

// SampleReferences returns up to limit application references, newest first
func (s *GormStore) SampleReferences(ctx context.Context, limit int) ([]string, error) {
	var refs []string
	err := s.db.WithContext(ctx).
		Model(&models.Application{}).
		Order("created_at DESC").
		Limit(limit).
		Pluck("reference", &refs).Error
	if err != nil {
		return nil, fmt.Errorf("sample references: %w", err)
	}
	return refs, nil
}

// CreateRenewal inserts a new renewal row
func (s *GormStore) CreateRenewal(ctx context.Context, renewal *models.Renewal) error {
	if err := s.db.WithContext(ctx).Create(renewal).Error; err != nil {
		return fmt.Errorf("insert renewal: %w", err)
	}
	return nil
}

// GetRenewalByReference fetches a renewal by its public reference
func (s *GormStore) GetRenewalByReference(ctx context.Context, reference string) (*models.Renewal, error) {
	var renewal models.Renewal
	err := s.db.WithContext(ctx).Where("reference = ?", reference).First(&renewal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query renewal: %w", err)
	}
	return &renewal, nil
}

// CreateArtifact records an uploaded blob as unclaimed
func (s *GormStore) CreateArtifact(ctx context.Context, artifact *models.Artifact) error {
	if err := s.db.WithContext(ctx).Create(artifact).Error; err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

// ClaimArtifacts marks the artifacts with the given URLs as claimed
func (s *GormStore) ClaimArtifacts(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Model(&models.Artifact{}).
		Where("url IN ?", urls).
		Update("claimed", true).Error
	if err != nil {
		return fmt.Errorf("claim artifacts: %w", err)
	}
	return nil
}

// UnclaimedBefore lists unclaimed artifacts uploaded before the cutoff
func (s *GormStore) UnclaimedBefore(ctx context.Context, cutoff time.Time) ([]models.Artifact, error) {
	var artifacts []models.Artifact
	err := s.db.WithContext(ctx).
		Where("claimed = ? AND created_at < ?", false, cutoff).
		Find(&artifacts).Error
	if err != nil {
		return nil, fmt.Errorf("list unclaimed artifacts: %w", err)
	}
	return artifacts, nil
}

// DeleteArtifacts removes artifact rows by ID
func (s *GormStore) DeleteArtifacts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.Artifact{}).Error
	if err != nil {
		return fmt.Errorf("delete artifacts: %w", err)
	}
	return nil
}

// ListUpdates returns all published notices, newest first
func (s *GormStore) ListUpdates(ctx context.Context) ([]models.Update, error) {
	var updates []models.Update
	err := s.db.WithContext(ctx).
		Where("published_at <= ?", time.Now()).
		Order("published_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	return updates, nil
}
