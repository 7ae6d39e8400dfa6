// Package tui implements the terminal interface: a Bubble Tea
// program with a prompt bar, four result panels, and a status bar.
package tui

import (
	"fmt"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/perbergman/sql-gpt/api"
	"github.com/perbergman/sql-gpt/applog"
	"github.com/perbergman/sql-gpt/config"
	"github.com/perbergman/sql-gpt/ssh"
)

// Start loads the configuration, connects to the server (through an
// SSH tunnel when configured) and runs the interface until the user
// quits.
func Start(serverOverride string) error {
	defer applog.Close()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serverOverride != "" {
		cfg.ServerURL = serverOverride
	}

	serverURL := cfg.ServerURL
	if cfg.SSH.Enabled {
		serverURL, err = openTunnel(cfg)
		if err != nil {
			return fmt.Errorf("ssh tunnel: %w", err)
		}
	}

	client := api.New(serverURL)
	applog.Info("connecting to %s", serverURL)

	app := NewApp(client, cfg)
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

// openTunnel forwards a local port to the server named in the config
// and returns the rewritten base URL. The tunnel lives for the
// lifetime of the process.
func openTunnel(cfg config.Config) (string, error) {
	u, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", cfg.ServerURL, err)
	}

	port := 80
	if p := u.Port(); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &port); err != nil {
			return "", fmt.Errorf("invalid server port %q", p)
		}
	}

	tunnel, err := ssh.NewTunnel(cfg.SSH, u.Hostname(), port)
	if err != nil {
		return "", err
	}

	localAddr, err := tunnel.Start()
	if err != nil {
		return "", err
	}

	applog.Info("ssh tunnel open: %s -> %s:%d via %s", localAddr, u.Hostname(), port, cfg.SSH.Host)
	return u.Scheme + "://" + localAddr, nil
}
