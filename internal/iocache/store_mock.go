package iocache

import (
	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetModelStore implements the StoreManager interface.
func (m *MockStoreManager) GetModelStore() contract.ModelStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ModelStore)
	return store
}

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockModelStore is a mock implementation of ModelStore for testing.
type MockModelStore struct {
	mock.Mock
}

var _ contract.ModelStore = &MockModelStore{} // Compile-time check

// Get implements the ModelStore interface.
func (m *MockModelStore) Get(name string) ([]byte, int, int64, error) {
	args := m.Called(name)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the ModelStore interface.
func (m *MockModelStore) Set(name string, value []byte, version int, ts int64) error {
	args := m.Called(name, value, version, ts)
	return args.Error(0)
}

// List implements the ModelStore interface.
func (m *MockModelStore) List() ([]schema.ModelEntry, error) {
	args := m.Called()
	entries, _ := args.Get(0).([]schema.ModelEntry)
	return entries, args.Error(1)
}

// GetStatus implements the ModelStore interface.
func (m *MockModelStore) GetStatus() (schema.ModelStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ModelStoreStatus), args.Error(1)
}

// Close implements the ModelStore interface.
func (m *MockModelStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// RecordAssessment implements the HistoryStore interface.
func (m *MockHistoryStore) RecordAssessment(record schema.AssessmentRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllAssessments implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllAssessments() ([]schema.AssessmentRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.AssessmentRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
