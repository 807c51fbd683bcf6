package normalizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const previewRows = 5

// Report is the outcome of one normalizer run.
type Report struct {
	Records    int
	Dataset    *Dataset
	Violations []Violation
}

// Pipeline loads records, normalizes them, replaces the stored tables and
// verifies the result.
type Pipeline struct {
	loader *Loader
	store  *Store
	logger *zap.Logger
}

func NewPipeline(loader *Loader, store *Store, logger *zap.Logger) *Pipeline {
	return &Pipeline{loader: loader, store: store, logger: logger.Named("pipeline")}
}

func (p *Pipeline) Run(ctx context.Context, location string) (*Report, error) {
	records, err := p.loader.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	ds, err := Normalize(records)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	Summarize(p.logger, ds, previewRows)

	if err := p.store.Replace(ctx, ds); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	violations, err := p.store.CheckIntegrity(ctx)
	if err != nil {
		return nil, fmt.Errorf("integrity check: %w", err)
	}
	return &Report{Records: len(records), Dataset: ds, Violations: violations}, nil
}

// Summarize logs the size of every relation and its first n rows.
func Summarize(logger *zap.Logger, ds *Dataset, n int) {
	logger.Info("Companies", zap.Int("rows", len(ds.Companies)), zap.Any("head", head(ds.Companies, n)))
	logger.Info("Clients", zap.Int("rows", len(ds.Clients)), zap.Any("head", head(ds.Clients, n)))
	logger.Info("TeamMembers", zap.Int("rows", len(ds.TeamMembers)), zap.Any("head", head(ds.TeamMembers, n)))
	logger.Info("Projects", zap.Int("rows", len(ds.Projects)), zap.Any("head", head(ds.Projects, n)))
	logger.Info("ProjectTeamMembers", zap.Int("rows", len(ds.ProjectTeamMembers)), zap.Any("head", head(ds.ProjectTeamMembers, n)))
}

func head[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
