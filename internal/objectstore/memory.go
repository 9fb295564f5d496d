package objectstore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory keeps objects in a map. Useful for development and tests.
type Memory struct {
	mu        sync.RWMutex
	objects   map[string]memoryObject
	publicURL string
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemory(publicURL string) *Memory {
	if publicURL == "" {
		publicURL = "http://localhost/objects"
	}
	return &Memory{
		objects:   make(map[string]memoryObject),
		publicURL: publicURL,
	}
}

func (m *Memory) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: data, contentType: contentType}
	return m.URL(key), nil
}

// Get returns the stored bytes and content type for key.
func (m *Memory) Get(key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return obj.data, obj.contentType, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func (m *Memory) URL(key string) string {
	return PublicURL(m.publicURL, key)
}
