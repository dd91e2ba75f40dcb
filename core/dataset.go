package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/cardiorisk/cardiorisk/schema"
)

// Dataset is a labelled training table.
type Dataset struct {
	Header  []string
	Rows    []schema.RawInput
	Labels  []int // 1 = heart disease present
	Dropped int   // rows removed for a zero RestingBP or Cholesterol
}

// LoadDataset reads a training CSV from disk.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadDataset(f)
}

// ReadDataset parses a training CSV. Every row must be a valid input with a
// 0/1 HeartDisease label. Rows where RestingBP or Cholesterol is 0 are
// recorded as missing measurements and dropped.
func ReadDataset(r io.Reader) (*Dataset, error) {
	header, rows, err := readTable(r, true)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Header: header}
	for i, raw := range rows {
		line := i + 2 // header is line 1
		p, err := parseInput(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		label, err := strconv.Atoi(strings.TrimSpace(raw[schema.FieldHeartDisease]))
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("line %d: %s must be 0 or 1", line, schema.FieldHeartDisease)
		}
		if p.numeric[schema.FieldRestingBP] == 0 || p.numeric[schema.FieldCholesterol] == 0 {
			ds.Dropped++
			continue
		}
		delete(raw, schema.FieldHeartDisease)
		ds.Rows = append(ds.Rows, raw)
		ds.Labels = append(ds.Labels, label)
	}
	if len(ds.Rows) == 0 {
		return nil, errors.New("dataset has no usable rows")
	}
	return ds, nil
}

// LoadRawInputs reads unlabelled assessment rows from a CSV file.
// Rows are returned unvalidated so each one can fail on its own.
func LoadRawInputs(path string) ([]schema.RawInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open input file: %w", err)
	}
	defer func() { _ = f.Close() }()
	_, rows, err := readTable(f, false)
	return rows, err
}

// readTable reads a CSV with a header row into one RawInput per record.
func readTable(r io.Reader, labelled bool) ([]string, []schema.RawInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	required := make([]string, 0, len(schema.Fields)+1)
	for _, f := range schema.Fields {
		required = append(required, f.Name)
	}
	if labelled {
		required = append(required, schema.FieldHeartDisease)
	}
	for _, name := range required {
		if !slices.Contains(header, name) {
			return nil, nil, fmt.Errorf("header is missing column %s", name)
		}
	}
	reader.FieldsPerRecord = len(header)

	var rows []schema.RawInput
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		raw := make(schema.RawInput, len(header))
		for i, name := range header {
			raw[name] = record[i]
		}
		rows = append(rows, raw)
	}
	return header, rows, nil
}

// DeriveSchema lays out the model columns the way the training table is
// one-hot expanded: pass-through columns in header order, then for each
// categorical field one indicator per observed value, values sorted.
func DeriveSchema(ds *Dataset) (*FeatureSchema, error) {
	if ds == nil || len(ds.Rows) == 0 {
		return nil, errors.New("dataset has no rows")
	}
	order := ds.Header
	if len(order) == 0 {
		for _, f := range schema.Fields {
			order = append(order, f.Name)
		}
	}
	var columns []string
	for _, name := range order {
		if _, ok := schema.LookupField(name); ok && !schema.IsCategorical(name) {
			columns = append(columns, name)
		}
	}
	for _, name := range schema.CategoricalFields {
		seen := make(map[string]struct{})
		for _, raw := range ds.Rows {
			if v := strings.TrimSpace(raw[name]); v != "" {
				seen[v] = struct{}{}
			}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		slices.Sort(values)
		for _, v := range values {
			columns = append(columns, schema.IndicatorColumn(name, v))
		}
	}
	return NewFeatureSchema(columns)
}
