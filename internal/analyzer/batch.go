package analyzer

import (
	"context"
	"sort"
	"time"

	"github.com/fetor-sh/fetor/internal/cache"
	"github.com/fetor-sh/fetor/internal/fileproc"
	"github.com/fetor-sh/fetor/internal/progress"
	"github.com/fetor-sh/fetor/internal/scanner"
	"github.com/fetor-sh/fetor/pkg/config"
	"github.com/fetor-sh/fetor/pkg/models"
	"github.com/fetor-sh/fetor/pkg/parser"
)

// ProjectAnalyzer scans a set of paths and analyzes every Python file in
// parallel. One bad file never aborts the batch; it is recorded as an
// error and the rest of the records stay homogeneous.
type ProjectAnalyzer struct {
	cfg     *config.Config
	cache   *cache.Cache
	tracker *progress.Tracker
}

// ProjectOption configures a ProjectAnalyzer.
type ProjectOption func(*ProjectAnalyzer)

// WithTracker attaches a progress tracker ticked per file.
func WithTracker(t *progress.Tracker) ProjectOption {
	return func(a *ProjectAnalyzer) {
		a.tracker = t
	}
}

// NewProjectAnalyzer creates a project analyzer from configuration.
func NewProjectAnalyzer(cfg *config.Config, opts ...ProjectOption) (*ProjectAnalyzer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	c, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return nil, err
	}

	a := &ProjectAnalyzer{cfg: cfg, cache: c}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Analyze expands paths into Python files and produces a batch report.
func (a *ProjectAnalyzer) Analyze(ctx context.Context, paths []string) (*models.BatchReport, error) {
	files, err := scanner.NewScanner(a.cfg).ScanPaths(paths)
	if err != nil {
		return nil, err
	}
	files, _ = scanner.FilterBySize(files, a.cfg.Analysis.MaxFileSize)

	return a.AnalyzeFiles(ctx, files), nil
}

// AnalyzeFiles analyzes an explicit file list.
func (a *ProjectAnalyzer) AnalyzeFiles(ctx context.Context, files []string) *models.BatchReport {
	report := models.NewBatchReport()
	report.ScannedFiles = len(files)

	classifier := NewClassifier(a.cfg.Thresholds)

	var onProgress fileproc.ProgressFunc
	if a.tracker != nil {
		onProgress = a.tracker.Tick
	}

	results, errs := fileproc.MapFiles(ctx, files, a.cfg.Analysis.Workers,
		func(psr *parser.Parser, path string) (models.FileAnalysis, error) {
			summary, err := a.analyzeOne(ctx, psr, path)
			if err != nil {
				return models.FileAnalysis{}, err
			}

			analysis := models.FileAnalysis{Summary: *summary}
			if a.cfg.Analysis.Smells {
				analysis.Smells = classifier.Classify(summary)
			}
			return analysis, nil
		}, onProgress)

	if errs != nil {
		for _, e := range errs.Errors {
			report.AddError(e.Path, e.Err)
		}
	}

	// Parallel collection order is nondeterministic; sort for stable output.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Summary.FilePath < results[j].Summary.FilePath
	})
	report.Results = results

	return report
}

// analyzeOne runs the metric pipeline for one file, consulting the cache
// before doing any parsing.
func (a *ProjectAnalyzer) analyzeOne(ctx context.Context, psr *parser.Parser, path string) (*models.NumericalSummary, error) {
	hash, err := cache.HashFile(path)
	if err != nil {
		return nil, err
	}

	if cached, ok := a.cache.GetSummary(path, hash); ok {
		return cached, nil
	}

	opts := []FileAnalyzerOption{WithParser(psr)}
	if a.cfg.Analysis.History {
		opts = append(opts, WithHistory(NewHistoryAnalyzer(
			WithTimeout(time.Duration(a.cfg.History.TimeoutSeconds)*time.Second),
			WithBurstWindow(time.Duration(a.cfg.History.BurstWindow)*24*time.Hour),
			WithTopCoupled(a.cfg.History.TopCoupled),
		)))
	}

	fa := NewFileAnalyzer(opts...)
	defer fa.Close()

	summary, err := fa.Analyze(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := a.cache.SetSummary(path, hash, summary); err != nil {
		return nil, err
	}
	return summary, nil
}
