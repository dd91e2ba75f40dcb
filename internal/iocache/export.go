package iocache

import (
	"errors"
	"fmt"

	"github.com/cardiorisk/cardiorisk/internal/parquet"
)

// ExecuteHistoryExport exports the assessment history to a Parquet file.
func ExecuteHistoryExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalAssessments == 0 {
		return errors.New("no assessment history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total assessments: %d\n", status.TotalAssessments)

	records, err := store.GetAllAssessments()
	if err != nil {
		return fmt.Errorf("failed to retrieve assessments: %w", err)
	}

	rows := parquet.ConvertAssessmentRecords(records)
	if err := parquet.WriteAssessmentsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write assessments: %w", err)
	}
	fmt.Printf("Exported %d assessments to: %s\n", len(rows), outputFile)

	fmt.Println("\nExport complete! The Parquet file can be used with:")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
