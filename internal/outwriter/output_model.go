package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteModelDescription outputs the feature columns of a model with their scaler ranges.
func WriteModelDescription(d schema.ModelDescription, cfg *contract.Config) error {
	_, fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, d)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"index", "column", "min", "max"}, func(cw *csv.Writer) error {
				for i, c := range d.Columns {
					rec := []string{strconv.Itoa(i), c.Name, fmtFloat(c.Min), fmtFloat(c.Max)}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDescriptionTable(w, d, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

func writeDescriptionTable(w io.Writer, d schema.ModelDescription, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Column", "Min", "Max"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, len(d.Columns))
	for i, c := range d.Columns {
		data[i] = []string{strconv.Itoa(i), c.Name, fmtFloat(c.Min), fmtFloat(c.Max)}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	info := d.Info
	if _, err := fmt.Fprintf(w, "Model %s (fingerprint %s)\n", info.ModelID, info.Fingerprint); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Trained %s on %d rows with %d trees, seed %d, train accuracy %.3f\n",
		info.TrainedAt.Format(contract.DateTimeFormat), info.Rows, info.Trees, info.Seed, info.Accuracy)
	return err
}
