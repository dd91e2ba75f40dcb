package schema

import "time"

// AssessmentRecord represents a row from the cardiorisk_assessments table.
type AssessmentRecord struct {
	AssessmentID string
	ModelID      string
	AssessedAt   time.Time
	Source       string
	Inputs       string // RawInput as JSON
	Probability  float64
	Percent      float64
	Tier         string
}

// ModelEntry represents a row from the cardiorisk_models table.
type ModelEntry struct {
	Name      string
	ModelID   string
	Version   int
	Timestamp int64
	Size      int
}

// ModelInfo describes a loaded model bundle.
type ModelInfo struct {
	ModelID     string    `json:"model_id"`
	TrainedAt   time.Time `json:"trained_at"`
	Trees       int       `json:"trees"`
	Seed        int64     `json:"seed"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	Fingerprint string    `json:"fingerprint"`
	Accuracy    float64   `json:"train_accuracy"`
}

// ColumnStat is one feature column with its fitted scaler range.
type ColumnStat struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ModelDescription is a model's metadata plus its column layout.
type ModelDescription struct {
	Info    ModelInfo    `json:"info"`
	Columns []ColumnStat `json:"columns"`
}
