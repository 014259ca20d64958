package models

import "time"

// CoupledFile records how often another file changed in the same commits.
type CoupledFile struct {
	Path    string `json:"path"`
	Commits int    `json:"commits"`
}

// FileHistory holds version-control metrics for a single file.
// Available is false when the file is not tracked in a repository (or the
// repository could not be read in time); all other fields are then
// meaningless and must not be folded into summaries as zeros.
type FileHistory struct {
	Path         string        `json:"path"`
	Available    bool          `json:"available"`
	Commits      int           `json:"commits"`
	Authors      int           `json:"authors"`
	LinesAdded   int           `json:"lines_added"`
	LinesDeleted int           `json:"lines_deleted"`
	FirstCommit  time.Time     `json:"first_commit"`
	LastCommit   time.Time     `json:"last_commit"`
	AgeDays      int           `json:"age_days"`
	CommitBursts int           `json:"commit_bursts"`
	CoupledFiles []CoupledFile `json:"coupled_files"`
}

// Unavailable returns a FileHistory marked as having no repository data.
func Unavailable(path string) *FileHistory {
	return &FileHistory{Path: path, Available: false}
}
