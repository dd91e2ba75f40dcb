package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAssessmentResult outputs one assessment, dispatching based on the output format configured.
func WriteAssessmentResult(a schema.Assessment, cfg *contract.Config, duration time.Duration) error {
	fmtProb, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONAssessment(w, a)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVAssessment(w, a, fmtProb)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAssessmentTable(w, a, cfg, fmtProb, duration)
		}, "Wrote table")
	}
	return nil
}

// writeAssessmentTable renders the input fields followed by the verdict.
func writeAssessmentTable(w io.Writer, a schema.Assessment, cfg *contract.Config, fmtProb func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})

	var data [][]string
	for _, f := range schema.Fields {
		data = append(data, []string{f.Label, a.Input[f.Name]})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Risk of heart disease: %s (probability %s)\n",
		contract.FormatPercent(a.Result.Percent), fmtProb(a.Result.Probability)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Tier: %s. %s\n", contract.GetColorLabel(a.Result.Tier), a.Result.Tier.Advice()); err != nil {
		return err
	}
	for _, warning := range a.Warnings {
		if _, err := fmt.Fprintf(w, "⚠️  %s\n", warning); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Assessed in %v with model %s. History backend: %s\n", duration, a.ModelID, cfg.HistoryBackend)
	return err
}

func writeCSVAssessment(w io.Writer, a schema.Assessment, fmtProb func(float64) string) error {
	header := []string{"id", "model_id", "probability", "percent", "tier", "advice", "warnings"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			a.ID,
			a.ModelID,
			fmtProb(a.Result.Probability),
			strconv.FormatFloat(a.Result.Percent, 'f', 1, 64),
			contract.GetPlainLabel(a.Result.Tier),
			a.Result.Tier.Advice(),
			strings.Join(a.Warnings, "|"),
		})
	})
}

func writeJSONAssessment(w io.Writer, a schema.Assessment) error {
	type jsonAssessment struct {
		schema.Assessment
		Advice string `json:"advice"`
	}
	return writeJSON(w, jsonAssessment{Assessment: a, Advice: a.Result.Tier.Advice()})
}

// WriteBatchResults outputs batch assessment results, dispatching based on the output format configured.
func WriteBatchResults(items []schema.BatchItem, cfg *contract.Config, duration time.Duration) error {
	fmtProb, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONBatch(w, items)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVBatch(w, items, fmtProb)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, items, cfg, fmtProb, duration)
		}, "Wrote table")
	}
	return nil
}

// batchNote is the free-text column of a batch row: the error when the row
// failed, otherwise its warnings.
func batchNote(item schema.BatchItem) string {
	if item.Err != nil {
		return item.Err.Error()
	}
	return strings.Join(item.Warnings, "; ")
}

func writeBatchTable(w io.Writer, items []schema.BatchItem, cfg *contract.Config, fmtProb func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Row", "Probability", "Risk", "Tier", "Note"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	noteWidth := getMaxTableNoteWidth()
	counts := make(map[schema.RiskTier]int)
	failed := 0
	var data [][]string
	for _, item := range items {
		note := truncateText(batchNote(item), noteWidth)
		if item.Result == nil {
			failed++
			data = append(data, []string{strconv.Itoa(item.Row), "-", "-", "-", note})
			continue
		}
		counts[item.Result.Tier]++
		data = append(data, []string{
			strconv.Itoa(item.Row),
			fmtProb(item.Result.Probability),
			contract.FormatPercent(item.Result.Percent),
			contract.GetColorLabel(item.Result.Tier),
			note,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Assessed %d rows (low: %d, moderate: %d, high: %d, failed: %d)\n",
		len(items), counts[schema.LowRisk], counts[schema.ModerateRisk], counts[schema.HighRisk], failed); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Batch completed in %v with %d workers. History backend: %s\n", duration, cfg.Workers, cfg.HistoryBackend)
	return err
}

func writeCSVBatch(w io.Writer, items []schema.BatchItem, fmtProb func(float64) string) error {
	header := []string{"row", "probability", "percent", "tier", "advice", "error", "warnings"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, item := range items {
			rec := []string{strconv.Itoa(item.Row), "", "", "", "", "", strings.Join(item.Warnings, "|")}
			if item.Result != nil {
				rec[1] = fmtProb(item.Result.Probability)
				rec[2] = strconv.FormatFloat(item.Result.Percent, 'f', 1, 64)
				rec[3] = contract.GetPlainLabel(item.Result.Tier)
				rec[4] = item.Result.Tier.Advice()
			}
			if item.Err != nil {
				rec[5] = item.Err.Error()
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeJSONBatch(w io.Writer, items []schema.BatchItem) error {
	type jsonBatchItem struct {
		Row      int                `json:"row"`
		Input    schema.RawInput    `json:"input"`
		Result   *schema.RiskResult `json:"result,omitempty"`
		Advice   string             `json:"advice,omitempty"`
		Warnings []string           `json:"warnings,omitempty"`
		Error    string             `json:"error,omitempty"`
	}

	output := make([]jsonBatchItem, len(items))
	for i, item := range items {
		output[i] = jsonBatchItem{
			Row:      item.Row,
			Input:    item.Input,
			Result:   item.Result,
			Warnings: item.Warnings,
		}
		if item.Result != nil {
			output[i].Advice = item.Result.Tier.Advice()
		}
		if item.Err != nil {
			output[i].Error = item.Err.Error()
		}
	}
	return writeJSON(w, output)
}
