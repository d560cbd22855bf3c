package git

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"
)

func TestCommitSync_CommitsDirtyTreeOnce(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "_pages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_pages", "about_us.md"), []byte("body"), 0o644))

	client := NewClient(dir).WithAuthor("Sync Bot", "bot@example.org")

	hash, err := client.CommitSync("Sync pages from Notion")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	require.Equal(t, hash, head.Hash().String())

	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	require.Equal(t, "Sync pages from Notion", commit.Message)
	require.Equal(t, "Sync Bot", commit.Author.Name)

	// A second call on a clean tree must be a no-op.
	hash, err = client.CommitSync("Sync pages from Notion")
	require.NoError(t, err)
	require.Empty(t, hash)
}

func TestCommitSync_StagesDeletions(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	path := filepath.Join(dir, "index.md")
	require.NoError(t, os.WriteFile(path, []byte("home"), 0o644))

	client := NewClient(dir)
	_, err = client.CommitSync("initial")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	hash, err := client.CommitSync("remove root document")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	status, err := wt.Status()
	require.NoError(t, err)
	require.True(t, status.IsClean())
}

func TestCommitSync_NotARepository_ReturnsError(t *testing.T) {
	_, err := NewClient(t.TempDir()).CommitSync("msg")
	require.Error(t, err)
}
