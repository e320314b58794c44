package storage

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Gateway for tests. It enforces the same
// write-once semantics as the real bucket and can be told to fail.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	// FailNext makes the next Upload call fail with the given error
	FailNext error
	// UploadCalls counts how many Upload calls reached the gateway
	UploadCalls int
}

// NewMemory creates an empty in-memory gateway
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// Upload stores data under objectName, failing on name collisions
func (m *Memory) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UploadCalls++
	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return "", err
	}
	if _, exists := m.objects[objectName]; exists {
		return "", ErrObjectExists
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[objectName] = stored
	m.types[objectName] = contentType
	return m.publicURL(objectName), nil
}

// Remove deletes the named objects; missing names are ignored
func (m *Memory) Remove(ctx context.Context, objectNames []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range objectNames {
		delete(m.objects, name)
		delete(m.types, name)
	}
	return nil
}

// Object returns the stored bytes for an object name
func (m *Memory) Object(objectName string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectName]
	return data, ok
}

// Len reports how many objects are stored
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *Memory) publicURL(objectName string) string {
	return fmt.Sprintf("https://storage.test/object/public/passport-files/%s", objectName)
}
