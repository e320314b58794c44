// Package upload sequences artifact uploads: validation, collision-safe
// naming, the single collision retry, and cleanup book-keeping.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/lesotho-epassport/backend/internal/models"
	"github.com/lesotho-epassport/backend/internal/records"
	"github.com/lesotho-epassport/backend/internal/services/storage"
)

var (
	// ErrMissingSignature means the signature surface was empty. This is a
	// caller error, not an upload failure; no gateway call is made.
	ErrMissingSignature = errors.New("signature is empty")

	// ErrEmptyFile means a zero-byte file was submitted
	ErrEmptyFile = errors.New("file is empty")

	// ErrUnsupportedFileType means the photo's declared type is not an
	// accepted image format
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrFileTooLarge means the photo exceeds the size cap
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrUploadFailed wraps gateway failures that are not correctable by
	// the applicant
	ErrUploadFailed = errors.New("storage upload failed")
)

// MaxPhotoSize is the renewal photo size cap
const MaxPhotoSize = 2 << 20 // 2 MiB

// photoExtensions maps the accepted photo content types to file extensions
var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
}

// extensions maps the content types we commonly see to file extensions.
// Anything else is stored as .bin; the bucket serves the stored
// Content-Type regardless of extension.
var extensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"application/pdf": "pdf",
}

// Coordinator uploads artifacts through the storage gateway and records
// each successful upload for the cleanup job.
type Coordinator struct {
	gateway   storage.Gateway
	artifacts records.ArtifactStore
	now       func() time.Time
}

// NewCoordinator creates an upload coordinator
func NewCoordinator(gateway storage.Gateway, artifacts records.ArtifactStore) *Coordinator {
	return &Coordinator{
		gateway:   gateway,
		artifacts: artifacts,
		now:       time.Now,
	}
}

// SetClock overrides the coordinator's clock; used by tests
func (c *Coordinator) SetClock(now func() time.Time) {
	c.now = now
}

// ValidatePhoto enforces the renewal photo rules before any network call
func ValidatePhoto(contentType string, size int64) error {
	if _, ok := photoExtensions[contentType]; !ok {
		return fmt.Errorf("%w: %s (accepted: JPEG, PNG, GIF)", ErrUnsupportedFileType, contentType)
	}
	if size > MaxPhotoSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, MaxPhotoSize)
	}
	return nil
}

// UploadArtifact uploads content to the bucket and returns its public URL.
// Signature uploads of empty content fail with ErrMissingSignature before
// reaching the gateway. On a name collision the upload is retried exactly
// once under a fresh name, so an earlier blob is never overwritten.
func (c *Coordinator) UploadArtifact(ctx context.Context, kind models.ArtifactKind, content []byte, contentType, nameHint string) (string, error) {
	if kind == models.ArtifactSignature && len(content) == 0 {
		return "", ErrMissingSignature
	}
	if len(content) == 0 {
		return "", ErrEmptyFile
	}

	objectName := c.objectName(kind, nameHint, contentType)
	url, err := c.gateway.Upload(ctx, objectName, content, contentType)
	if errors.Is(err, storage.ErrObjectExists) {
		objectName = c.objectName(kind, nameHint, contentType)
		url, err = c.gateway.Upload(ctx, objectName, content, contentType)
	}
	if err != nil {
		if errors.Is(err, storage.ErrPublicURLUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	// Book-keeping only: the blob is already stored, so a failed row must
	// not fail the upload. Worst case the cleanup job misses one orphan.
	if err := c.artifacts.CreateArtifact(ctx, &models.Artifact{
		Kind:       kind,
		ObjectName: objectName,
		URL:        url,
	}); err != nil {
		log.Printf("failed to record artifact %s: %v", objectName, err)
	}

	return url, nil
}

// UploadRenewalPhoto validates and uploads a renewal photo, keyed by the
// applicant's passport number.
func (c *Coordinator) UploadRenewalPhoto(ctx context.Context, content []byte, contentType, passportNumber string) (string, error) {
	if err := ValidatePhoto(contentType, int64(len(content))); err != nil {
		return "", err
	}
	return c.UploadArtifact(ctx, models.ArtifactPhoto, content, contentType, "passport-"+passportNumber)
}

// objectName builds a collision-resistant destination name:
// {kind}_{hint}_{timestamp}_{random}.{ext}
func (c *Coordinator) objectName(kind models.ArtifactKind, nameHint, contentType string) string {
	hint := slug.Make(nameHint)
	if hint == "" {
		hint = "anonymous"
	}
	ext, ok := extensions[contentType]
	if !ok {
		ext = "bin"
	}
	random := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s_%d_%s.%s", kind, hint, c.now().Unix(), random, ext)
}
