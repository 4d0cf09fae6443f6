// Package storage provides the keyed JSON blob store backing the live app
// state. Each entity lives in its own file so a corrupted blob never takes
// the others down with it.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Fixed blob keys. Every key is written after each mutation of its entity
// and removed on app reset.
const (
	KeyAssessmentForm = "assessment_form"
	KeyActivePlan     = "active_plan"
	KeyLikedMeals     = "liked_meals"
	KeyUserID         = "user_id"
)

// BlobStore persists JSON blobs under fixed keys in a base directory.
type BlobStore struct {
	basePath string
}

// NewBlobStore creates a BlobStore and ensures the base directory exists.
func NewBlobStore(basePath string) (*BlobStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &BlobStore{basePath: basePath}, nil
}

func (s *BlobStore) pathFor(key string) string {
	return filepath.Join(s.basePath, key+".json")
}

// Save serializes v and writes it under key.
func (s *BlobStore) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal blob %s: %w", key, err)
	}
	if err := os.WriteFile(s.pathFor(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

// Load reads the blob under key into out. It reports whether the blob
// existed; a missing blob is not an error.
func (s *BlobStore) Load(key string, out any) (bool, error) {
	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal blob %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the blob under key. Deleting a missing blob is a no-op.
func (s *BlobStore) Delete(key string) error {
	if err := os.Remove(s.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
