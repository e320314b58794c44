package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/lesotho-epassport/backend/internal/records"
	"github.com/lesotho-epassport/backend/internal/services/storage"
)

// ArtifactCleanupJob removes blobs that were uploaded while a form was
// being filled in but never claimed by a submitted record. Abandoned
// sessions otherwise leave orphans in the bucket forever.
type ArtifactCleanupJob struct {
	artifacts records.ArtifactStore
	gateway   storage.Gateway
	retention time.Duration
	scheduler *gocron.Scheduler
	now       func() time.Time
}

// NewArtifactCleanupJob creates the cleanup job
func NewArtifactCleanupJob(artifacts records.ArtifactStore, gateway storage.Gateway, retention time.Duration) *ArtifactCleanupJob {
	return &ArtifactCleanupJob{
		artifacts: artifacts,
		gateway:   gateway,
		retention: retention,
		scheduler: gocron.NewScheduler(time.UTC),
		now:       time.Now,
	}
}

// SetClock overrides the job's clock; used by tests
func (j *ArtifactCleanupJob) SetClock(now func() time.Time) {
	j.now = now
}

// Run performs one cleanup pass. Blob removal happens before the rows are
// deleted: if removal fails the rows stay and the next pass retries.
func (j *ArtifactCleanupJob) Run(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.retention)

	orphans, err := j.artifacts.UnclaimedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	names := make([]string, 0, len(orphans))
	ids := make([]uuid.UUID, 0, len(orphans))
	for _, a := range orphans {
		names = append(names, a.ObjectName)
		ids = append(ids, a.ID)
	}

	if err := j.gateway.Remove(ctx, names); err != nil {
		return 0, err
	}
	if err := j.artifacts.DeleteArtifacts(ctx, ids); err != nil {
		return 0, err
	}

	log.Printf("artifact cleanup removed %d orphaned uploads", len(orphans))
	return len(orphans), nil
}

// Schedule starts the recurring cleanup at the given interval
func (j *ArtifactCleanupJob) Schedule(interval time.Duration) error {
	_, err := j.scheduler.Every(interval).Do(func() {
		if _, err := j.Run(context.Background()); err != nil {
			log.Printf("artifact cleanup failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (j *ArtifactCleanupJob) Stop() {
	j.scheduler.Stop()
}
