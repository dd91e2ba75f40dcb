// Package contract provides interfaces and shared utilities for the cardiorisk internal architecture.
package contract

import "github.com/cardiorisk/cardiorisk/schema"

// StoreManager defines the interface for managing persistence stores.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetModelStore() ModelStore
	GetHistoryStore() HistoryStore
}

// ModelStore defines the interface for the model registry.
// Values are encoded model bundles keyed by registry name.
type ModelStore interface {
	Get(name string) ([]byte, int, int64, error)
	Set(name string, value []byte, version int, timestamp int64) error
	List() ([]schema.ModelEntry, error)
	GetStatus() (schema.ModelStoreStatus, error)
	Close() error
}

// HistoryStore defines the interface for recording assessments.
type HistoryStore interface {
	// RecordAssessment stores one completed assessment
	RecordAssessment(record schema.AssessmentRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllAssessments retrieves every recorded assessment
	GetAllAssessments() ([]schema.AssessmentRecord, error)

	// Close closes the underlying connection
	Close() error
}
