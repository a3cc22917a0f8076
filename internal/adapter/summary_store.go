package adapter

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// SummaryStore persists the outcome of a run.
type SummaryStore interface {
	SaveSummary(ctx context.Context, path m.Path, summary m.RunSummary) error
}

// YAMLSummaryStore writes run summaries as YAML documents.
type YAMLSummaryStore struct {
	fs SourceFSAdapter
}

// NewYAMLSummaryStore constructs a YAMLSummaryStore writing through fs.
func NewYAMLSummaryStore(fs SourceFSAdapter) *YAMLSummaryStore {
	return &YAMLSummaryStore{fs: fs}
}

// SaveSummary encodes summary and replaces the file at path with it.
func (s *YAMLSummaryStore) SaveSummary(ctx context.Context, path m.Path, summary m.RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	if err := s.fs.WriteFileAtomic(ctx, path, data); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}
