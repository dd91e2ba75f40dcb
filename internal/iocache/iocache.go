// Package iocache persists trained models and assessment history.
package iocache

import (
	"sync"

	"github.com/cardiorisk/cardiorisk/internal/contract"
)

// StoreManager manages the model registry and the history store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	models       contract.ModelStore
	history      contract.HistoryStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// NewStoreManager wraps already opened stores.
func NewStoreManager(models contract.ModelStore, history contract.HistoryStore) *StoreManager {
	return &StoreManager{models: models, history: history}
}

// GetModelStore returns the model registry.
func (mgr *StoreManager) GetModelStore() contract.ModelStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.models
}

// GetHistoryStore returns the assessment history store.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
