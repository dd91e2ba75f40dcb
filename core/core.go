// Package core has the heart-disease risk pipeline: encoding, scaling,
// classification, training and the command executors built on them.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/internal/outwriter"
	"github.com/cardiorisk/cardiorisk/schema"
)

// ExecutorFunc defines the function signature for executing the commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// historyStore returns the history store of mgr, if any.
func historyStore(mgr contract.StoreManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}

// ExecutePredict assesses the patient held in the config and prints the result.
func ExecutePredict(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	m, err := LoadModel(cfg, mgr)
	if err != nil {
		return err
	}
	assessor := NewAssessor(m, historyStore(mgr), cfg.SourceOr(schema.CLISource))
	assessment, err := assessor.Assess(cfg.Patient)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAssessment(assessment, cfg, time.Since(start))
}

// ExecuteBatch assesses every row of the CSV file at cfg.DataPath.
func ExecuteBatch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	if cfg.DataPath == "" {
		return errors.New("a CSV file with patient rows is required")
	}
	m, err := LoadModel(cfg, mgr)
	if err != nil {
		return err
	}
	rows, err := LoadRawInputs(cfg.DataPath)
	if err != nil {
		return err
	}
	contract.LogInfo("🩺 Assessing %d rows with model %s", len(rows), m.Info.ModelID)

	assessor := NewAssessor(m, historyStore(mgr), cfg.SourceOr(schema.BatchSource))
	items, err := assessor.AssessBatch(ctx, rows, cfg.Workers)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBatch(items, cfg, time.Since(start))
}

// ExecuteTrain fits a model on the labelled CSV at cfg.DataPath, saves the
// bundle to cfg.TrainOut and optionally registers it.
func ExecuteTrain(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	if cfg.DataPath == "" {
		return errors.New("a labelled training CSV is required")
	}
	ds, err := LoadDataset(cfg.DataPath)
	if err != nil {
		return err
	}
	contract.LogInfo("📚 Loaded %d rows from %s (%d dropped for zero blood pressure or cholesterol)", len(ds.Rows), cfg.DataPath, ds.Dropped)

	opts := TrainOptions{
		Trees:       cfg.Trees,
		Seed:        cfg.Seed,
		MaxFeatures: cfg.MaxFeatures,
		Workers:     cfg.Workers,
	}
	m, err := Train(ctx, ds, opts)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	if err := SaveModelFile(cfg.TrainOut, m); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	contract.LogInfo("💾 Saved model %s to %s", m.Info.ModelID, cfg.TrainOut)

	if cfg.Register != "" {
		if mgr == nil || mgr.GetModelStore() == nil {
			return fmt.Errorf("--register %q needs a model registry", cfg.Register)
		}
		version, err := RegisterModel(mgr.GetModelStore(), cfg.Register, m)
		if err != nil {
			return err
		}
		contract.LogInfo("📦 Registered model as %s (version %d)", cfg.Register, version)
	}

	contract.LogInfo("✅ Trained %d trees on %d columns in %v (train accuracy %.3f)",
		m.Info.Trees, len(m.Info.Columns), time.Since(start), m.Info.Accuracy)
	return outwriter.NewOutWriter().WriteDescription(DescribeModel(m), cfg)
}

// ExecuteSchema prints the feature columns of the configured model.
func ExecuteSchema(_ context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	m, err := LoadModel(cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteDescription(DescribeModel(m), cfg)
}
