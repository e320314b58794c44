package upload

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesotho-epassport/backend/internal/models"
	"github.com/lesotho-epassport/backend/internal/records"
	"github.com/lesotho-epassport/backend/internal/services/storage"
)

func newCoordinator() (*Coordinator, *storage.Memory, *records.MemoryStore) {
	gw := storage.NewMemory()
	store := records.NewMemoryStore()
	return NewCoordinator(gw, store), gw, store
}

func TestUploadArtifactReturnsURLAndRecordsArtifact(t *testing.T) {
	c, gw, store := newCoordinator()

	url, err := c.UploadArtifact(context.Background(), models.ArtifactPhoto, []byte("jpeg-bytes"), "image/jpeg", "9001-12345")
	require.NoError(t, err)
	require.NotEmpty(t, url)
	assert.Equal(t, 1, gw.UploadCalls)

	artifact, ok := store.ArtifactByURL(url)
	require.True(t, ok, "upload must be recorded for cleanup")
	assert.Equal(t, models.ArtifactPhoto, artifact.Kind)
	assert.False(t, artifact.Claimed)
	assert.True(t, strings.HasPrefix(artifact.ObjectName, "photo_9001-12345_"))
	assert.True(t, strings.HasSuffix(artifact.ObjectName, ".jpg"))
}

func TestUploadEmptySignatureFailsWithoutGatewayCall(t *testing.T) {
	c, gw, _ := newCoordinator()

	_, err := c.UploadArtifact(context.Background(), models.ArtifactSignature, nil, "image/png", "9001")
	assert.ErrorIs(t, err, ErrMissingSignature)
	assert.Equal(t, 0, gw.UploadCalls, "empty signature must not reach the gateway")
}

func TestUploadEmptyFileRejected(t *testing.T) {
	c, gw, _ := newCoordinator()

	_, err := c.UploadArtifact(context.Background(), models.ArtifactDocument, []byte{}, "application/pdf", "9001")
	assert.ErrorIs(t, err, ErrEmptyFile)
	assert.Equal(t, 0, gw.UploadCalls)
}

func TestUploadRetriesOnceOnCollision(t *testing.T) {
	c, gw, _ := newCoordinator()
	gw.FailNext = storage.ErrObjectExists

	url, err := c.UploadArtifact(context.Background(), models.ArtifactSignature, []byte("png"), "image/png", "9001")
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, 2, gw.UploadCalls, "exactly one retry after a collision")
}

func TestUploadGatewayErrorWrapped(t *testing.T) {
	c, gw, _ := newCoordinator()
	gw.FailNext = errors.New("bucket offline")

	_, err := c.UploadArtifact(context.Background(), models.ArtifactDocument, []byte("pdf"), "application/pdf", "9001")
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, 1, gw.UploadCalls, "non-collision failures are not retried")
}

func TestValidatePhoto(t *testing.T) {
	assert.NoError(t, ValidatePhoto("image/jpeg", 1024))
	assert.NoError(t, ValidatePhoto("image/png", MaxPhotoSize))
	assert.NoError(t, ValidatePhoto("image/gif", 1024))

	assert.ErrorIs(t, ValidatePhoto("application/pdf", 1024), ErrUnsupportedFileType)
	assert.ErrorIs(t, ValidatePhoto("image/webp", 1024), ErrUnsupportedFileType)
	assert.ErrorIs(t, ValidatePhoto("image/jpeg", MaxPhotoSize+1), ErrFileTooLarge)
}

func TestUploadRenewalPhotoValidatesBeforeNetwork(t *testing.T) {
	c, gw, _ := newCoordinator()

	_, err := c.UploadRenewalPhoto(context.Background(), []byte("not-an-image"), "text/plain", "RC123456")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Equal(t, 0, gw.UploadCalls, "validation failures must not touch storage")
}

func TestRenewalPhotosForSamePassportGetDistinctNames(t *testing.T) {
	c, _, store := newCoordinator()

	first, err := c.UploadRenewalPhoto(context.Background(), []byte("one"), "image/jpeg", "RC123456")
	require.NoError(t, err)
	second, err := c.UploadRenewalPhoto(context.Background(), []byte("two"), "image/jpeg", "RC123456")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	a, ok := store.ArtifactByURL(first)
	require.True(t, ok)
	b, ok := store.ArtifactByURL(second)
	require.True(t, ok)
	assert.NotEqual(t, a.ObjectName, b.ObjectName, "second photo must not overwrite the first blob")
}
