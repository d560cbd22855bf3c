package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/notionsync/internal/config"
)

// CheckCmd implements the 'check' command: a dry run that fetches and renders
// everything without touching the site tree.
type CheckCmd struct{}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	service, cleanup, err := buildService(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := service.Check(ctx, cfg.Notion.DatabaseID)
	if err != nil {
		return err
	}

	fmt.Printf("Rendered %d pages\n", report.Pages)
	for _, issue := range report.LinkIssues {
		fmt.Printf("  %s: unresolved link %s\n", issue.Page, issue.Destination)
	}
	if n := len(report.LinkIssues); n > 0 {
		return fmt.Errorf("found %d unresolved site-relative links", n)
	}
	return nil
}
