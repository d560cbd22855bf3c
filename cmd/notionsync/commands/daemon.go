package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/notionsync/internal/config"
	"git.home.luguber.info/inful/notionsync/internal/daemon"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Listen string `short:"l" help:"Metrics listen address (overrides config)"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	service, cleanup, err := buildService(cfg, cfg.Sync.Commit)
	if err != nil {
		return err
	}
	defer cleanup()

	listen := cfg.Daemon.Listen
	if d.Listen != "" {
		listen = d.Listen
	}

	dmn, err := daemon.New(service, cfg.Notion.DatabaseID, cfg.IntervalDuration(), listen)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return dmn.Run(ctx)
}
