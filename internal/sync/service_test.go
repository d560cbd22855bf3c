package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notionsync/internal/content"
	"git.home.luguber.info/inful/notionsync/internal/state"
)

type fakeFetcher struct {
	pages []content.PageRecord
	err   error
}

func (f *fakeFetcher) FetchPages(context.Context, string) ([]content.PageRecord, error) {
	return f.pages, f.err
}

type fakeCommitter struct {
	message string
	hash    string
	err     error
}

func (f *fakeCommitter) CommitSync(message string) (string, error) {
	f.message = message
	return f.hash, f.err
}

func para(s string) []content.Block {
	return []content.Block{{Type: content.BlockParagraph, Text: []content.RichTextSpan{{Content: s}}}}
}

func link(label, dest string) []content.Block {
	return []content.Block{{Type: content.BlockParagraph, Text: []content.RichTextSpan{{Content: label, Href: dest}}}}
}

func TestSync_WritesPagesAndReports(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{pages: []content.PageRecord{
		{ID: "1", Title: "Welcome", TypeLabel: content.HomeType, Blocks: para("home")},
		{ID: "2", Title: "About Us", TypeLabel: "Page", Blocks: para("about")},
	}}

	report, err := NewService(fetcher, dir).Sync(context.Background(), "db")
	require.NoError(t, err)
	require.NotEmpty(t, report.RunID)
	require.Equal(t, 2, report.Pages)
	require.ElementsMatch(t, []string{"index.md", "_pages/about_us.md"}, report.Written)
	require.Empty(t, report.Removed)
	require.Empty(t, report.LinkIssues)

	_, err = os.Stat(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
}

func TestSync_FetchFailure_LeavesDiskUntouched(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "_pages"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_pages", "keep.md"), []byte("keep"), 0o644))

	fetcher := &fakeFetcher{err: fmt.Errorf("notion unreachable")}
	_, err := NewService(fetcher, dir).Sync(context.Background(), "db")
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "_pages", "keep.md"))
	require.NoError(t, err, "a failed fetch must not delete existing pages")
}

func TestSync_ReportsLinkIssues(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{pages: []content.PageRecord{
		{ID: "1", Title: "About Us", TypeLabel: "Page", Blocks: link("dead", "/nowhere/")},
		{ID: "2", Title: "Team", TypeLabel: "Page", Blocks: link("ok", "/about_us/")},
	}}

	report, err := NewService(fetcher, dir).Sync(context.Background(), "db")
	require.NoError(t, err)
	require.Len(t, report.LinkIssues, 1)
	require.Equal(t, "/nowhere/", report.LinkIssues[0].Destination)
}

func TestSync_CommitStep(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{pages: []content.PageRecord{
		{ID: "1", Title: "A", TypeLabel: "Page", Blocks: para("x")},
	}}
	committer := &fakeCommitter{hash: "abc123"}

	report, err := NewService(fetcher, dir).
		WithCommitter(committer, "Sync pages from Notion").
		Sync(context.Background(), "db")
	require.NoError(t, err)
	require.Equal(t, "abc123", report.Commit)
	require.Equal(t, "Sync pages from Notion", committer.message)
}

func TestSync_RecordsRunHistory(t *testing.T) {
	store, err := state.NewRunStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	dir := t.TempDir()
	fetcher := &fakeFetcher{pages: []content.PageRecord{
		{ID: "1", Title: "A", TypeLabel: "Page", Blocks: para("x")},
	}}

	report, err := NewService(fetcher, dir).WithRunStore(store).Sync(context.Background(), "db")
	require.NoError(t, err)

	runs, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, report.RunID, runs[0].ID)
	require.Equal(t, state.StatusOK, runs[0].Status)
	require.Equal(t, 1, runs[0].Pages)
}

func TestSync_RecordsFailedRun(t *testing.T) {
	store, err := state.NewRunStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	fetcher := &fakeFetcher{err: fmt.Errorf("boom")}
	_, err = NewService(fetcher, t.TempDir()).WithRunStore(store).Sync(context.Background(), "db")
	require.Error(t, err)

	runs, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, state.StatusFailed, runs[0].Status)
	require.Contains(t, runs[0].Error, "boom")
}

func TestCheck_DoesNotTouchFilesystem(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeFetcher{pages: []content.PageRecord{
		{ID: "1", Title: "A", TypeLabel: "Page", Blocks: link("dead", "/missing/")},
	}}

	report, err := NewService(fetcher, dir).Check(context.Background(), "db")
	require.NoError(t, err)
	require.Equal(t, 1, report.Pages)
	require.Len(t, report.LinkIssues, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "check must not write anything")
}
