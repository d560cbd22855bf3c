// Package sync orchestrates one synchronization run: fetch the complete page
// snapshot, render every page, reconcile the site tree, and run the optional
// post-steps (link verification, run history, git commit).
package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/notionsync/internal/content"
	"git.home.luguber.info/inful/notionsync/internal/linkcheck"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
	"git.home.luguber.info/inful/notionsync/internal/render"
	"git.home.luguber.info/inful/notionsync/internal/site"
	"git.home.luguber.info/inful/notionsync/internal/state"
)

// Fetcher provides the complete page snapshot for one run.
type Fetcher interface {
	FetchPages(ctx context.Context, databaseID string) ([]content.PageRecord, error)
}

// Committer commits the site working tree after a successful reconcile.
type Committer interface {
	CommitSync(message string) (string, error)
}

// Report summarizes one run.
type Report struct {
	RunID      string
	Pages      int
	Written    []string
	Removed    []string
	LinkIssues []linkcheck.Issue
	Commit     string
	Duration   time.Duration
}

// Service wires the fetch collaborator to the renderer and reconciler.
type Service struct {
	fetcher       Fetcher
	reconciler    *site.Reconciler
	committer     Committer
	commitMessage string
	store         *state.RunStore
}

// NewService creates a sync service targeting siteDir.
func NewService(fetcher Fetcher, siteDir string) *Service {
	return &Service{
		fetcher:    fetcher,
		reconciler: site.NewReconciler(siteDir),
	}
}

// WithCommitter enables the post-sync commit step (fluent helper).
func (s *Service) WithCommitter(c Committer, message string) *Service {
	s.committer = c
	s.commitMessage = message
	return s
}

// WithRunStore enables run history recording (fluent helper).
func (s *Service) WithRunStore(store *state.RunStore) *Service {
	s.store = store
	return s
}

// Sync performs one full run. The fetched snapshot must be complete before
// the reconciler touches disk; a fetch failure therefore aborts the run
// without deleting anything.
func (s *Service) Sync(ctx context.Context, databaseID string) (*Report, error) {
	runID := uuid.NewString()
	started := time.Now()
	slog.Info("Starting sync run", logfields.RunID(runID))

	pages, err := s.fetcher.FetchPages(ctx, databaseID)
	if err != nil {
		s.recordRun(ctx, runID, started, nil, err)
		return nil, err
	}
	slog.Info("Fetched pages", logfields.RunID(runID), logfields.Count(len(pages)))

	result, err := s.reconciler.Reconcile(pages, render.Page)
	if err != nil {
		s.recordRun(ctx, runID, started, nil, err)
		return nil, err
	}

	report := &Report{
		RunID:      runID,
		Pages:      len(pages),
		Written:    result.Written,
		Removed:    result.Removed,
		LinkIssues: verifyLinks(pages),
	}
	for _, issue := range report.LinkIssues {
		slog.Warn("Unresolved site-relative link",
			logfields.RunID(runID), logfields.Path(issue.Page), logfields.URL(issue.Destination))
	}

	if s.committer != nil {
		hash, err := s.committer.CommitSync(s.commitMessage)
		if err != nil {
			s.recordRun(ctx, runID, started, report, err)
			return nil, err
		}
		report.Commit = hash
	}

	report.Duration = time.Since(started)
	s.recordRun(ctx, runID, started, report, nil)
	slog.Info("Sync run complete",
		logfields.RunID(runID),
		logfields.Count(report.Pages),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

// Check performs a dry run: fetch and render every page and verify links,
// without touching the filesystem.
func (s *Service) Check(ctx context.Context, databaseID string) (*Report, error) {
	runID := uuid.NewString()
	started := time.Now()

	pages, err := s.fetcher.FetchPages(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:      runID,
		Pages:      len(pages),
		LinkIssues: verifyLinks(pages),
		Duration:   time.Since(started),
	}
	return report, nil
}

// verifyLinks renders every page in memory and checks site-relative links
// against the permalink set this snapshot produces.
func verifyLinks(pages []content.PageRecord) []linkcheck.Issue {
	rendered := make(map[string]string, len(pages))
	permalinks := make(map[string]struct{}, len(pages))

	for _, p := range pages {
		rendered[site.TargetPath(p)] = render.Page(p.Title, p.TypeLabel, p.Blocks)
		if p.IsHome() {
			permalinks["/"] = struct{}{}
		} else {
			permalinks["/"+site.Slug(p.Title)+"/"] = struct{}{}
		}
	}
	return linkcheck.Verify(rendered, permalinks)
}

// recordRun persists the run outcome when a store is configured. History
// failures are logged, never fatal.
func (s *Service) recordRun(ctx context.Context, runID string, started time.Time, report *Report, runErr error) {
	if s.store == nil {
		return
	}

	run := state.Run{
		ID:         runID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Status:     state.StatusOK,
	}
	if report != nil {
		run.Pages = report.Pages
		run.Orphans = len(report.Removed)
	}
	if runErr != nil {
		run.Status = state.StatusFailed
		run.Error = runErr.Error()
	}

	if err := s.store.Record(ctx, run); err != nil {
		slog.Warn("Failed to record run history", logfields.RunID(runID), logfields.Error(err))
	}
}
