package models

import "time"

// FileAnalysis pairs a file's metric record with its smell classification.
type FileAnalysis struct {
	Summary NumericalSummary `json:"summary"`
	Smells  *SmellReport     `json:"smells,omitempty"`
}

// BatchError records a file that failed during batch analysis.
type BatchError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// BatchReport is the result of analyzing a set of files. A single failing
// file never aborts the batch; it is counted here instead.
type BatchReport struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	ScannedFiles int            `json:"scanned_files"`
	ErrorCount   int            `json:"error_count"`
	Errors       []BatchError   `json:"errors"`
	Results      []FileAnalysis `json:"results"`
}

// NewBatchReport creates an initialized batch report.
func NewBatchReport() *BatchReport {
	return &BatchReport{
		GeneratedAt: time.Now().UTC(),
		Errors:      make([]BatchError, 0),
		Results:     make([]FileAnalysis, 0),
	}
}

// AddError records a per-file failure.
func (r *BatchReport) AddError(path string, err error) {
	r.Errors = append(r.Errors, BatchError{Path: path, Message: err.Error()})
	r.ErrorCount++
}
