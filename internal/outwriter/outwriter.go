// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAssessment prints a single assessment using the configured output format.
func (ow *OutWriter) WriteAssessment(a schema.Assessment, cfg *contract.Config, duration time.Duration) error {
	return WriteAssessmentResult(a, cfg, duration)
}

// WriteBatch prints batch assessment results using the configured output format.
func (ow *OutWriter) WriteBatch(items []schema.BatchItem, cfg *contract.Config, duration time.Duration) error {
	return WriteBatchResults(items, cfg, duration)
}

// WriteDescription prints the model columns and scaler ranges using the configured output format.
func (ow *OutWriter) WriteDescription(d schema.ModelDescription, cfg *contract.Config) error {
	return WriteModelDescription(d, cfg)
}

// getMaxTableNoteWidth calculates the maximum width for the free-text note
// column of the batch table based on terminal width.
func getMaxTableNoteWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		termWidth = 80 // Conservative default for narrow terminals and CI
	}

	// Row + Probability + Risk + Tier with borders/padding
	available := termWidth - 50
	if available < 20 {
		return 20
	}
	if available > 80 {
		return 80
	}
	return available
}

// truncateText shortens s to maxWidth runes, ending with an ellipsis.
func truncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) <= maxWidth || maxWidth < 4 {
		return s
	}
	return string(runes[:maxWidth-3]) + "..."
}
