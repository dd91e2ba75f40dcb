package schema

import "time"

// ModelStoreStatus represents the status of the model registry.
type ModelStoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalModels     int       `json:"total_models"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the assessment history store.
type HistoryStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalAssessments int              `json:"total_assessments"`
	LastAssessmentID string           `json:"last_assessment_id"`
	LastAssessedAt   time.Time        `json:"last_assessed_at"`
	OldestAssessedAt time.Time        `json:"oldest_assessed_at"`
	TierCounts       map[RiskTier]int `json:"tier_counts"`
	SchemaVersion    uint             `json:"schema_version"`
	SchemaDirty      bool             `json:"schema_dirty"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
