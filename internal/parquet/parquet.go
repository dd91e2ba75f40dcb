// Package parquet provides data structures and functions for exporting cardiorisk
// assessment history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/parquet-go/parquet-go"
)

// Assessment represents a single recorded risk assessment.
// This struct maps to the cardiorisk_assessments database table.
type Assessment struct {
	// AssessmentID is the unique identifier of the assessment
	AssessmentID string `parquet:"assessment_id,snappy"`

	// ModelID identifies the model bundle that produced the result
	ModelID string `parquet:"model_id,snappy,dict"`

	// AssessedAt is when the assessment ran (stored as TIMESTAMP with nanosecond precision)
	AssessedAt time.Time `parquet:"assessed_at,snappy"`

	// Source is the surface that requested the assessment (cli, batch, mcp, http)
	Source string `parquet:"source,snappy,dict"`

	// Inputs contains the JSON-encoded raw clinical fields
	Inputs string `parquet:"inputs,snappy"`

	// Probability is the positive-class probability in [0, 1]
	Probability float64 `parquet:"probability,snappy"`

	// Percent is the probability as a percentage rounded to one decimal
	Percent float64 `parquet:"percent,snappy"`

	// Tier is the risk band label
	Tier string `parquet:"tier,snappy,dict"`
}

// WriteAssessmentsParquet writes a slice of Assessment structs to a Parquet file.
func WriteAssessmentsParquet(data []Assessment, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the Assessment struct tags
	writer := parquet.NewGenericWriter[Assessment](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertAssessmentRecords converts schema.AssessmentRecord to Assessment for Parquet export.
func ConvertAssessmentRecords(records []schema.AssessmentRecord) []Assessment {
	result := make([]Assessment, len(records))
	for i, record := range records {
		result[i] = Assessment{
			AssessmentID: record.AssessmentID,
			ModelID:      record.ModelID,
			AssessedAt:   record.AssessedAt,
			Source:       record.Source,
			Inputs:       record.Inputs,
			Probability:  record.Probability,
			Percent:      record.Percent,
			Tier:         record.Tier,
		}
	}
	return result
}
