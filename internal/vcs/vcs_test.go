package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T, dir string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return repo
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string, when time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: when},
	})
	require.NoError(t, err)
}

func TestPlainOpenMissingRepo(t *testing.T) {
	opener := NewGitOpener()
	_, err := opener.PlainOpen(t.TempDir())
	assert.Error(t, err, "expected error for non-repository directory")
}

func TestLogAndDiff(t *testing.T) {
	dir := t.TempDir()
	repo := initRepo(t, dir)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	commitFile(t, repo, dir, "app.py", "x = 1\n", base)
	commitFile(t, repo, dir, "app.py", "x = 1\ny = 2\n", base.Add(time.Hour))

	opener := NewGitOpener()
	r, err := opener.PlainOpen(dir)
	require.NoError(t, err)

	assert.NotEmpty(t, r.Root(), "expected non-empty worktree root")

	iter, err := r.Log(&LogOptions{})
	require.NoError(t, err)
	defer iter.Close()

	var commits int
	var added int
	err = iter.ForEach(func(c Commit) error {
		commits++
		if c.NumParents() == 0 {
			return nil
		}
		parent, err := c.Parent(0)
		if err != nil {
			return err
		}
		parentTree, err := parent.Tree()
		if err != nil {
			return err
		}
		tree, err := c.Tree()
		if err != nil {
			return err
		}
		changes, err := parentTree.Diff(tree)
		if err != nil {
			return err
		}
		for _, change := range changes {
			if change.ToName() != "app.py" {
				continue
			}
			patch, err := change.Patch()
			if err != nil {
				return err
			}
			for _, fp := range patch.FilePatches() {
				for _, chunk := range fp.Chunks() {
					if chunk.Type() == ChunkAdd {
						added++
					}
				}
			}
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, commits)
	assert.Greater(t, added, 0, "expected at least one added chunk in the second commit")
}

func TestPlainOpenWithDetect(t *testing.T) {
	dir := t.TempDir()
	repo := initRepo(t, dir)
	commitFile(t, repo, dir, "m.py", "pass\n", time.Now())

	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.MkdirAll(sub, 0755))

	opener := NewGitOpener()
	r, err := opener.PlainOpenWithDetect(sub)
	require.NoError(t, err)
	_, err = r.Head()
	assert.NoError(t, err)
}
