package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/notionsync/internal/config"
	"git.home.luguber.info/inful/notionsync/internal/git"
	"git.home.luguber.info/inful/notionsync/internal/notion"
	"git.home.luguber.info/inful/notionsync/internal/state"
	syncsvc "git.home.luguber.info/inful/notionsync/internal/sync"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct{}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync   SyncCmd   `cmd:"" help:"Fetch the Notion database and reconcile the site's page set"`
	Check  CheckCmd  `cmd:"" help:"Fetch and render without writing; report unresolved links"`
	Daemon DaemonCmd `cmd:"" help:"Run scheduled syncs and serve Prometheus metrics"`
	Init   InitCmd   `cmd:"" help:"Write a starter configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// buildService assembles the sync service from configuration. The returned
// cleanup function closes the run store when one was opened.
func buildService(cfg *config.Config, commit bool) (*syncsvc.Service, func(), error) {
	client, err := notion.NewClient(notion.ClientConfig{Token: cfg.Notion.Token})
	if err != nil {
		return nil, nil, err
	}

	service := syncsvc.NewService(client, cfg.Site.Dir)
	cleanup := func() {}

	if commit {
		service.WithCommitter(git.NewClient(cfg.Site.Dir), cfg.Sync.CommitMessage)
	}
	if cfg.Sync.StateDB != "" {
		store, err := state.NewRunStore(cfg.Sync.StateDB)
		if err != nil {
			return nil, nil, err
		}
		service.WithRunStore(store)
		cleanup = func() { _ = store.Close() }
	}

	return service, cleanup, nil
}
