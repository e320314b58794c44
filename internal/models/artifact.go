package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArtifactKind is the role an uploaded blob plays in an application
type ArtifactKind string

const (
	ArtifactPhoto     ArtifactKind = "photo"
	ArtifactDocument  ArtifactKind = "document"
	ArtifactSignature ArtifactKind = "signature"
)

// ValidArtifactKind reports whether k is a member of the kind enumeration
func ValidArtifactKind(k ArtifactKind) bool {
	return k == ArtifactPhoto || k == ArtifactDocument || k == ArtifactSignature
}

// Artifact is the book-keeping row for a blob written to the storage
// bucket. Files are uploaded the moment the applicant picks them, before
// the form is submitted, so a row starts unclaimed. Submission claims the
// rows whose URLs appear in the persisted record; the cleanup job removes
// blobs that were never claimed within the retention window.
type Artifact struct {
	ID         uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Kind       ArtifactKind `gorm:"type:varchar(20);not null" json:"kind"`
	ObjectName string       `gorm:"type:varchar(255);not null" json:"object_name"`
	URL        string       `gorm:"type:text;not null;uniqueIndex" json:"url"`
	Claimed    bool         `gorm:"not null;default:false" json:"claimed"`
	CreatedAt  time.Time    `json:"created_at"`
}

// BeforeCreate assigns the row ID when the caller did not
func (a *Artifact) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
