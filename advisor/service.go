package advisor

import (
	"fmt"
	"log"
	"sync"
)

// Analysis bundles the derived views of one dataset. All fields are
// recomputed together and never persisted.
type Analysis struct {
	Dataset      *Dataset
	Standardized *StandardizedMatrix
	Projection   *Projection
	AxisLabels   [2]string
}

// Service is the analysis session: it owns the current dataset and its
// derived views and recomputes them from scratch whenever the dataset
// changes. Scoring never mutates the session, so slider interactions are a
// pure read.
type Service struct {
	mu       sync.RWMutex
	cfg      Config
	data     *Dataset
	analysis *Analysis

	labeler AxisLabeler
	logger  *log.Logger
}

// NewService constructs a session with the given configuration. A nil
// labeler selects the default heuristic; a nil logger silences the session.
func NewService(cfg Config, labeler AxisLabeler, logger *log.Logger) *Service {
	cfg.ApplyDefaults()
	if labeler == nil {
		labeler = DefaultLabeler()
	}
	return &Service{cfg: cfg, labeler: labeler, logger: logger}
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration.
func (s *Service) UpdateConfig(cfg Config) Config {
	cfg.ApplyDefaults()
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return cfg
}

// SetDataset replaces the current dataset and recomputes the whole pipeline:
// standardization, projection and axis labels. On error the previous
// analysis is kept untouched.
func (s *Service) SetDataset(ds *Dataset) (*Analysis, error) {
	if ds == nil || len(ds.Machines) == 0 {
		return nil, fmt.Errorf("%w: データがありません", ErrEmptyDataset)
	}
	ds = ds.Clone()
	sm, err := Standardize(ds)
	if err != nil {
		return nil, err
	}
	proj, err := Project(sm)
	if err != nil {
		return nil, err
	}
	analysis := &Analysis{
		Dataset:      ds,
		Standardized: sm,
		Projection:   proj,
		AxisLabels: [2]string{
			s.labeler.Label(proj.Dimensions, proj.Loadings[0]),
			s.labeler.Label(proj.Dimensions, proj.Loadings[1]),
		},
	}
	s.mu.Lock()
	s.data = ds
	s.analysis = analysis
	s.mu.Unlock()
	s.logf("分析完了: %d台 / PC1=%s (%.1f%%) / PC2=%s (%.1f%%)",
		len(ds.Machines),
		analysis.AxisLabels[0], proj.ExplainedVariance[0]*100,
		analysis.AxisLabels[1], proj.ExplainedVariance[1]*100)
	return analysis, nil
}

// Analysis returns the current derived views, if a dataset has been set.
func (s *Service) Analysis() (*Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.analysis == nil {
		return nil, false
	}
	return s.analysis, true
}

// Rank scores the current dataset with the given preference and budget.
func (s *Service) Rank(preference, budget float64) ([]Recommendation, error) {
	s.mu.RLock()
	analysis := s.analysis
	s.mu.RUnlock()
	if analysis == nil {
		return nil, fmt.Errorf("%w: 先にデータを分析してください", ErrEmptyDataset)
	}
	return Rank(analysis.Dataset, analysis.Projection, preference, budget), nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
