package core

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cardiorisk/cardiorisk/internal/artifact"
	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
)

// ErrModelNotRegistered is returned when a registry name has no bundle.
var ErrModelNotRegistered = errors.New("model is not registered")

// RegisterModel stores the model under name, bumping the version of any
// bundle already registered there.
func RegisterModel(store contract.ModelStore, name string, m *Model) (int, error) {
	data, err := artifact.Marshal(m.Bundle())
	if err != nil {
		return 0, err
	}

	version := 1
	_, prev, _, err := store.Get(name)
	switch {
	case err == nil:
		version = prev + 1
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("failed to read registry entry %q: %w", name, err)
	}

	if err := store.Set(name, data, version, time.Now().Unix()); err != nil {
		return 0, fmt.Errorf("failed to register model %q: %w", name, err)
	}
	return version, nil
}

// LoadRegisteredModel loads and validates the bundle registered under name.
func LoadRegisteredModel(store contract.ModelStore, name string) (*Model, error) {
	data, _, _, err := store.Get(name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotRegistered, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry entry %q: %w", name, err)
	}
	b, err := artifact.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("registry entry %q: %w", name, err)
	}
	return ModelFromBundle(b)
}

// ListModels returns the registry entries with the model id of each bundle.
// Entries that no longer decode are listed without an id.
func ListModels(store contract.ModelStore) ([]schema.ModelEntry, error) {
	entries, err := store.List()
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		data, _, _, err := store.Get(e.Name)
		if err != nil {
			continue
		}
		if b, err := artifact.Unmarshal(data); err == nil {
			entries[i].ModelID = b.ModelID
		}
	}
	return entries, nil
}

// LoadModel resolves the configured model: the registry entry when a model
// reference is set, the bundle file otherwise.
func LoadModel(cfg *contract.Config, mgr contract.StoreManager) (*Model, error) {
	if cfg.ModelRef != "" {
		if mgr == nil || mgr.GetModelStore() == nil {
			return nil, fmt.Errorf("--model-ref %q needs a model registry", cfg.ModelRef)
		}
		return LoadRegisteredModel(mgr.GetModelStore(), cfg.ModelRef)
	}
	m, err := LoadModelFile(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", cfg.ModelPath, err)
	}
	return m, nil
}
