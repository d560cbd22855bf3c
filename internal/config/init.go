package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init writes a starter configuration file. Credentials are deliberately
// absent: they belong in the environment or a .env file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Notion: NotionConfig{
			DatabaseID: "YOUR_NOTION_DATABASE_ID",
		},
		Site: SiteConfig{
			Dir: ".",
		},
		Sync: SyncConfig{
			Commit:        false,
			CommitMessage: DefaultCommitMessage,
			StateDB:       "",
		},
		Daemon: DaemonConfig{
			Interval: DefaultDaemonInterval,
			Listen:   DefaultDaemonListen,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}

	header := "# notionsync configuration\n# The integration token is read from the " + EnvToken + " environment variable.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
