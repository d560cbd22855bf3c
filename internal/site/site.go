// Package site maintains the Jekyll site's page set: it derives target paths
// from page titles, writes rendered documents, and removes files no longer
// backed by a source page.
package site

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/notionsync/internal/content"
	syncerrors "git.home.luguber.info/inful/notionsync/internal/errors"
	"git.home.luguber.info/inful/notionsync/internal/frontmatter"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
)

const (
	// DefaultLayout is the Jekyll layout assigned to every synced page.
	DefaultLayout = "default"

	// RootDocument is the fixed site-relative path for the Home page.
	RootDocument = "index.md"

	// PagesDir is the site-relative directory holding all non-home pages.
	PagesDir = "_pages"
)

var nonSlugRuns = regexp.MustCompile(`[^a-z0-9_]+`)

// Slug normalizes a title into a filename/permalink component: lower-cased,
// with every run of characters outside [a-z0-9_] collapsed to a single "_".
//
// Distinct titles can normalize to the same slug; Reconcile warns and lets
// the last writer win.
func Slug(title string) string {
	return nonSlugRuns.ReplaceAllString(strings.ToLower(title), "_")
}

// TargetPath returns the site-relative file path for a page. The reserved
// Home type always maps to the root document.
func TargetPath(p content.PageRecord) string {
	if p.IsHome() {
		return RootDocument
	}
	return PagesDir + "/" + Slug(p.Title) + ".md"
}

// RenderFunc renders a page body from (title, type label, blocks).
type RenderFunc func(title, typeLabel string, blocks []content.Block) string

// Result summarizes one reconcile pass.
type Result struct {
	Written  []string // site-relative paths written this run
	Removed  []string // site-relative paths deleted as orphans
	HomeSeen bool
}

// Reconciler writes rendered pages under a site root and prunes orphans.
type Reconciler struct {
	siteDir string
}

// NewReconciler creates a reconciler rooted at siteDir.
func NewReconciler(siteDir string) *Reconciler {
	return &Reconciler{siteDir: siteDir}
}

// Reconcile writes every page and then deletes on-disk files not present in
// this run's target set. The caller must pass a complete snapshot of the
// source page set: a partial snapshot makes legitimate pages look orphaned.
//
// The root document is deleted only when it exists and no page in this run
// carried the Home type. Filesystem failures abort the run.
func (r *Reconciler) Reconcile(pages []content.PageRecord, renderFn RenderFunc) (*Result, error) {
	if err := os.MkdirAll(filepath.Join(r.siteDir, PagesDir), 0o755); err != nil {
		return nil, syncerrors.Wrap(err, syncerrors.CategoryFileSystem, syncerrors.SeverityFatal,
			"create pages directory").WithContext("path", PagesDir)
	}

	result := &Result{}
	targets := make(map[string]struct{}, len(pages))

	for _, page := range pages {
		rel := TargetPath(page)
		if _, seen := targets[rel]; seen {
			slog.Warn("Title normalizes to an already-written path, last writer wins",
				logfields.Page(page.Title), logfields.Path(rel))
		}
		targets[rel] = struct{}{}
		if page.IsHome() {
			result.HomeSeen = true
		}

		doc, err := frontmatter.Document(frontMatterFields(page), renderFn(page.Title, page.TypeLabel, page.Blocks))
		if err != nil {
			return nil, syncerrors.Wrap(err, syncerrors.CategoryRender, syncerrors.SeverityFatal,
				"serialize front matter").WithContext("page", page.Title)
		}

		abs := filepath.Join(r.siteDir, filepath.FromSlash(rel))
		if err := os.WriteFile(abs, doc, 0o644); err != nil {
			return nil, syncerrors.Wrap(err, syncerrors.CategoryFileSystem, syncerrors.SeverityFatal,
				"write page").WithContext("path", rel)
		}
		result.Written = append(result.Written, rel)
		slog.Debug("Wrote page", logfields.Page(page.Title), logfields.Path(rel), logfields.PageType(page.TypeLabel))
	}

	removed, err := r.removeOrphans(targets, result.HomeSeen)
	if err != nil {
		return nil, err
	}
	result.Removed = removed

	return result, nil
}

// removeOrphans deletes pages-directory files absent from targets, plus the
// root document when no home page was seen this run.
func (r *Reconciler) removeOrphans(targets map[string]struct{}, homeSeen bool) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.siteDir, PagesDir))
	if err != nil {
		return nil, syncerrors.Wrap(err, syncerrors.CategoryFileSystem, syncerrors.SeverityFatal,
			"list pages directory").WithContext("path", PagesDir)
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		rel := PagesDir + "/" + entry.Name()
		if _, keep := targets[rel]; keep {
			continue
		}
		if err := os.Remove(filepath.Join(r.siteDir, PagesDir, entry.Name())); err != nil {
			return nil, syncerrors.Wrap(err, syncerrors.CategoryFileSystem, syncerrors.SeverityFatal,
				"remove orphaned page").WithContext("path", rel)
		}
		removed = append(removed, rel)
		slog.Info("Removed orphaned page", logfields.Path(rel))
	}

	if !homeSeen {
		rootPath := filepath.Join(r.siteDir, RootDocument)
		if _, err := os.Stat(rootPath); err == nil {
			if err := os.Remove(rootPath); err != nil {
				return nil, syncerrors.Wrap(err, syncerrors.CategoryFileSystem, syncerrors.SeverityFatal,
					"remove root document").WithContext("path", RootDocument)
			}
			removed = append(removed, RootDocument)
			slog.Info("Removed root document, no home page in source", logfields.Path(RootDocument))
		}
	}

	return removed, nil
}

// frontMatterFields builds the Jekyll front matter for a page. Home pages get
// a navigation-exclusion marker instead of a permalink.
func frontMatterFields(p content.PageRecord) []frontmatter.Field {
	fields := []frontmatter.Field{
		{Key: "title", Value: p.Title},
		{Key: "layout", Value: DefaultLayout},
		{Key: "type", Value: p.TypeLabel},
	}
	if p.IsHome() {
		return append(fields, frontmatter.Field{Key: "nav_exclude", Value: true})
	}
	return append(fields, frontmatter.Field{Key: "permalink", Value: "/" + Slug(p.Title) + "/"})
}
