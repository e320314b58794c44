// Package storage abstracts the object-storage bucket that holds uploaded
// photos, certified documents and signatures. Blobs are write-once: a name
// collision is an error, never an overwrite.
package storage

import (
	"context"
	"errors"
)

// ErrObjectExists is returned when the destination name is already taken
var ErrObjectExists = errors.New("object already exists")

// ErrPublicURLUnavailable is returned when the upload succeeded but no
// public URL could be derived for it
var ErrPublicURLUnavailable = errors.New("public URL unavailable")

// Gateway is the external blob store. Upload writes data under objectName
// and returns the blob's public URL.
type Gateway interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, objectNames []string) error
}
