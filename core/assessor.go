package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/google/uuid"
)

// Assessor runs assessments against one loaded model and records them in
// the history store. It is safe for concurrent use.
type Assessor struct {
	model      *Model
	classifier *RiskClassifier
	history    contract.HistoryStore
	source     schema.Source
}

// NewAssessor creates an assessor. A nil history store disables recording.
func NewAssessor(m *Model, history contract.HistoryStore, source schema.Source) *Assessor {
	return &Assessor{model: m, classifier: m.Classifier(), history: history, source: source}
}

// Model returns the model backing the assessor.
func (a *Assessor) Model() *Model { return a.model }

// Assess runs one assessment and records it.
func (a *Assessor) Assess(raw schema.RawInput) (schema.Assessment, error) {
	res, warnings, err := a.classifier.Assess(raw)
	if err != nil {
		return schema.Assessment{}, err
	}
	assessment := schema.Assessment{
		ID:       uuid.NewString(),
		ModelID:  a.model.Info.ModelID,
		Input:    raw.Clone(),
		Result:   res,
		Warnings: warnings,
	}
	a.record(assessment.ID, raw, res)
	return assessment, nil
}

// AssessBatch runs a batch and records every successful row.
func (a *Assessor) AssessBatch(ctx context.Context, rows []schema.RawInput, workers int) ([]schema.BatchItem, error) {
	items, err := AssessBatch(ctx, a.classifier, rows, workers)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Result != nil {
			a.record(uuid.NewString(), item.Input, *item.Result)
		}
	}
	return items, nil
}

// Describe returns the model metadata with the fitted range of every column.
func (a *Assessor) Describe() schema.ModelDescription {
	return DescribeModel(a.model)
}

// record stores an assessment. History is best effort and never fails the assessment.
func (a *Assessor) record(id string, raw schema.RawInput, res schema.RiskResult) {
	if a.history == nil {
		return
	}
	inputs, err := json.Marshal(raw)
	if err != nil {
		contract.LogWarn("Cannot encode assessment inputs", err)
		return
	}
	record := schema.AssessmentRecord{
		AssessmentID: id,
		ModelID:      a.model.Info.ModelID,
		AssessedAt:   time.Now().UTC(),
		Source:       string(a.source),
		Inputs:       string(inputs),
		Probability:  res.Probability,
		Percent:      res.Percent,
		Tier:         string(res.Tier),
	}
	if err := a.history.RecordAssessment(record); err != nil {
		contract.LogWarn(fmt.Sprintf("Cannot record assessment %s", id), err)
	}
}

// DescribeModel pairs every schema column with its scaler range.
func DescribeModel(m *Model) schema.ModelDescription {
	columns := m.Schema.Columns()
	stats := make([]schema.ColumnStat, len(columns))
	for i, name := range columns {
		stats[i] = schema.ColumnStat{Name: name, Min: m.Scaler.Min[i], Max: m.Scaler.Max[i]}
	}
	return schema.ModelDescription{Info: m.Info, Columns: stats}
}
