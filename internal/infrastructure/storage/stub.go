// Package storage provides object storage implementations for file operations.
package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	uploadapp "github.com/storefront/backend/internal/application/upload"
)

// StubObjectStorage is an in-memory implementation of ObjectStorageService.
// Use this for development until a real storage backend (S3, MinIO, etc.) is
// configured; uploaded objects live only for the lifetime of the process.
type StubObjectStorage struct {
	// BaseURL is the base URL for generated object URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubObjectStorage implements ObjectStorageService
var _ uploadapp.ObjectStorageService = (*StubObjectStorage)(nil)

// Upload keeps the object in memory and returns a deterministic URL
func (s *StubObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) (string, error) {
	if storageKey == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf

	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(storageKey, "/"), nil
}

// DeleteObject removes the object from memory; deleting a missing key succeeds
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists reports whether the object was uploaded to this process
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// Object returns the stored bytes for a key, for test assertions
func (s *StubObjectStorage) Object(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	return data, ok
}
