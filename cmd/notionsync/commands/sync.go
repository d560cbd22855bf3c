package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/notionsync/internal/config"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	Commit bool `help:"Commit the site working tree after a successful sync (overrides config)"`
}

func (s *SyncCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	service, cleanup, err := buildService(cfg, s.Commit || cfg.Sync.Commit)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := service.Sync(ctx, cfg.Notion.DatabaseID)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d pages (%d written, %d removed)\n", report.Pages, len(report.Written), len(report.Removed))
	if len(report.LinkIssues) > 0 {
		fmt.Printf("Warning: %d unresolved site-relative links\n", len(report.LinkIssues))
	}
	if report.Commit != "" {
		fmt.Printf("Committed %s\n", report.Commit[:8])
	}
	return nil
}
