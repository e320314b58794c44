package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesotho-epassport/backend/internal/models"
	"github.com/lesotho-epassport/backend/internal/records"
	"github.com/lesotho-epassport/backend/internal/services/storage"
	"github.com/lesotho-epassport/backend/internal/services/upload"
)

func TestCleanupRemovesOnlyStaleUnclaimedArtifacts(t *testing.T) {
	gw := storage.NewMemory()
	store := records.NewMemoryStore()
	uploader := upload.NewCoordinator(gw, store)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	store.SetClock(func() time.Time { return clock })
	uploader.SetClock(func() time.Time { return clock })

	ctx := context.Background()

	// An abandoned upload, a claimed one, and a fresh one
	staleURL, err := uploader.UploadArtifact(ctx, models.ArtifactPhoto, []byte("stale"), "image/png", "abandoned")
	require.NoError(t, err)

	claimedURL, err := uploader.UploadArtifact(ctx, models.ArtifactDocument, []byte("claimed"), "application/pdf", "submitted")
	require.NoError(t, err)
	require.NoError(t, store.ClaimArtifacts(ctx, []string{claimedURL}))

	clock = base.Add(30 * time.Hour)
	freshURL, err := uploader.UploadArtifact(ctx, models.ArtifactSignature, []byte("fresh"), "image/png", "in-progress")
	require.NoError(t, err)

	job := NewArtifactCleanupJob(store, gw, 24*time.Hour)
	job.SetClock(func() time.Time { return clock })

	removed, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, staleExists := store.ArtifactByURL(staleURL)
	assert.False(t, staleExists, "stale orphan must be forgotten")
	_, claimedExists := store.ArtifactByURL(claimedURL)
	assert.True(t, claimedExists, "claimed artifacts are never cleaned up")
	_, freshExists := store.ArtifactByURL(freshURL)
	assert.True(t, freshExists, "recent uploads get the full retention window")

	assert.Equal(t, 2, gw.Len(), "only the stale blob leaves the bucket")
}

func TestCleanupNoOrphansIsANoOp(t *testing.T) {
	gw := storage.NewMemory()
	store := records.NewMemoryStore()

	job := NewArtifactCleanupJob(store, gw, 24*time.Hour)
	removed, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
