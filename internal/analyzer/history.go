package analyzer

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fetor-sh/fetor/internal/progress"
	"github.com/fetor-sh/fetor/internal/vcs"
	"github.com/fetor-sh/fetor/pkg/models"
)

// HistoryAnalyzer derives change metrics for a file from its git log.
// Missing or unreadable repositories are not errors; the result is
// simply marked unavailable.
type HistoryAnalyzer struct {
	opener      vcs.Opener
	timeout     time.Duration
	burstWindow time.Duration
	topCoupled  int
	spinner     *progress.Tracker
}

// HistoryOption configures the history analyzer.
type HistoryOption func(*HistoryAnalyzer)

// WithOpener sets a custom repository opener.
func WithOpener(opener vcs.Opener) HistoryOption {
	return func(a *HistoryAnalyzer) {
		a.opener = opener
	}
}

// WithTimeout bounds how long a log walk may take.
func WithTimeout(d time.Duration) HistoryOption {
	return func(a *HistoryAnalyzer) {
		a.timeout = d
	}
}

// WithBurstWindow sets the sliding window for commit burst detection.
func WithBurstWindow(d time.Duration) HistoryOption {
	return func(a *HistoryAnalyzer) {
		a.burstWindow = d
	}
}

// WithTopCoupled sets how many co-changed files to report.
func WithTopCoupled(n int) HistoryOption {
	return func(a *HistoryAnalyzer) {
		a.topCoupled = n
	}
}

// WithHistorySpinner attaches a progress spinner ticked per commit.
func WithHistorySpinner(t *progress.Tracker) HistoryOption {
	return func(a *HistoryAnalyzer) {
		a.spinner = t
	}
}

// NewHistoryAnalyzer creates a history analyzer with defaults.
func NewHistoryAnalyzer(opts ...HistoryOption) *HistoryAnalyzer {
	a := &HistoryAnalyzer{
		opener:      vcs.DefaultOpener(),
		timeout:     5 * time.Minute,
		burstWindow: 7 * 24 * time.Hour,
		topCoupled:  5,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze walks the repository log for one file. When the file is not in
// a repository, or the walk exceeds the deadline, the returned history is
// marked unavailable rather than failing the caller.
func (a *HistoryAnalyzer) Analyze(ctx context.Context, path string) (*models.FileHistory, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return models.Unavailable(path), nil
	}

	repo, err := a.opener.PlainOpenWithDetect(filepath.Dir(abs))
	if err != nil {
		return models.Unavailable(path), nil
	}

	rel, err := filepath.Rel(repo.Root(), abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return models.Unavailable(path), nil
	}
	rel = filepath.ToSlash(rel)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	history, err := a.walkLog(ctx, repo, rel)
	if err != nil {
		// Deadline or cancellation degrades to unavailable.
		if ctx.Err() != nil {
			return models.Unavailable(path), nil
		}
		return nil, err
	}
	history.Path = path
	return history, nil
}

type commitTouch struct {
	when    time.Time
	coupled []string
	added   int
	deleted int
}

// walkLog iterates the full log collecting the commits that touched rel.
func (a *HistoryAnalyzer) walkLog(ctx context.Context, repo vcs.Repository, rel string) (*models.FileHistory, error) {
	iter, err := repo.Log(&vcs.LogOptions{})
	if err != nil {
		return models.Unavailable(rel), nil
	}
	defer iter.Close()

	var touches []commitTouch
	authors := make(map[string]bool)

	err = iter.ForEach(func(commit vcs.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.spinner != nil {
			a.spinner.Tick()
		}

		changes, reversed, err := commitChanges(commit)
		if err != nil {
			return nil
		}

		touch := commitTouch{when: commit.Author().When}
		touched := false
		for _, change := range changes {
			name := change.ToName()
			if name == "" {
				name = change.FromName()
			}
			if name == rel {
				touched = true
				touch.added, touch.deleted = countChangeLines(change)
				if reversed {
					touch.added, touch.deleted = touch.deleted, touch.added
				}
			} else {
				touch.coupled = append(touch.coupled, name)
			}
		}
		if touched {
			touches = append(touches, touch)
			authors[commit.Author().Email] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(touches) == 0 {
		return models.Unavailable(rel), nil
	}

	history := &models.FileHistory{
		Available: true,
		Commits:   len(touches),
		Authors:   len(authors),
	}

	var times []time.Time
	coChange := make(map[string]int)
	for _, t := range touches {
		history.LinesAdded += t.added
		history.LinesDeleted += t.deleted
		times = append(times, t.when)
		for _, f := range t.coupled {
			coChange[f]++
		}
	}

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	history.FirstCommit = times[0]
	history.LastCommit = times[len(times)-1]
	history.AgeDays = int(history.LastCommit.Sub(history.FirstCommit).Hours() / 24)
	history.CommitBursts = maxBurst(times, a.burstWindow)
	history.CoupledFiles = topCoupledFiles(coChange, a.topCoupled)

	return history, nil
}

// commitChanges diffs a commit against its first parent. Root commits
// diff toward the empty tree, so their chunk directions are reversed.
func commitChanges(commit vcs.Commit) (vcs.Changes, bool, error) {
	tree, err := commit.Tree()
	if err != nil {
		return nil, false, err
	}

	if commit.NumParents() == 0 {
		changes, err := tree.Diff(nil)
		return changes, true, err
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, false, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, false, err
	}
	changes, err := parentTree.Diff(tree)
	return changes, false, err
}

// countChangeLines sums added and deleted lines across a change's chunks.
func countChangeLines(change vcs.Change) (added, deleted int) {
	patch, err := change.Patch()
	if err != nil {
		return 0, 0
	}
	for _, fp := range patch.FilePatches() {
		for _, chunk := range fp.Chunks() {
			n := strings.Count(chunk.Content(), "\n")
			if n == 0 && chunk.Content() != "" {
				n = 1
			}
			switch chunk.Type() {
			case vcs.ChunkAdd:
				added += n
			case vcs.ChunkDelete:
				deleted += n
			}
		}
	}
	return added, deleted
}

// maxBurst returns the most commits falling inside any sliding window.
func maxBurst(sorted []time.Time, window time.Duration) int {
	best := 0
	lo := 0
	for hi := range sorted {
		for sorted[hi].Sub(sorted[lo]) > window {
			lo++
		}
		best = max(best, hi-lo+1)
	}
	return best
}

// topCoupledFiles returns the n files most often changed together with
// the target, most frequent first.
func topCoupledFiles(counts map[string]int, n int) []models.CoupledFile {
	files := make([]models.CoupledFile, 0, len(counts))
	for path, c := range counts {
		files = append(files, models.CoupledFile{Path: path, Commits: c})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Commits != files[j].Commits {
			return files[i].Commits > files[j].Commits
		}
		return files[i].Path < files[j].Path
	})
	if len(files) > n {
		files = files[:n]
	}
	return files
}
