package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// MockStorage is an in-memory StorageService for tests and local development
type MockStorage struct {
	mu           sync.RWMutex
	objects      map[string]mockObject
	failPrefixes []string
}

type mockObject struct {
	content     []byte
	contentType string
}

// NewMockStorage creates an empty mock store
func NewMockStorage() *MockStorage {
	return &MockStorage{objects: make(map[string]mockObject)}
}

// SetAsMockForTesting installs this mock as the global storage instance
func (m *MockStorage) SetAsMockForTesting() {
	SetStorageService(m)
}

// FailUploadsWithPrefix makes every upload under prefix fail
func (m *MockStorage) FailUploadsWithPrefix(prefix string) {
	m.mu.Lock()
	m.failPrefixes = append(m.failPrefixes, prefix)
	m.mu.Unlock()
}

func (m *MockStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	m.mu.RLock()
	for _, prefix := range m.failPrefixes {
		if strings.HasPrefix(key, prefix) {
			m.mu.RUnlock()
			return errors.New("mock storage: access denied")
		}
	}
	m.mu.RUnlock()

	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.objects[key] = mockObject{content: content, contentType: contentType}
	m.mu.Unlock()
	return nil
}

func (m *MockStorage) PresignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", nil
	}
	if !m.Exists(key) {
		return "", fmt.Errorf("file not found in mock storage: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.amazonaws.com/%s?expires=%d", key, int(ttl.Seconds())), nil
}

func (m *MockStorage) PublicURL(key string) string {
	return "https://test-bucket.s3.amazonaws.com/" + key
}

func (m *MockStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Exists checks whether key is stored
func (m *MockStorage) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// ContentType returns the stored content type of key
func (m *MockStorage) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[key].contentType
}

// Keys returns every stored key
func (m *MockStorage) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
