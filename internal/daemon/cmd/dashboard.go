package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/emberhearth/hearth/internal/config"
	"github.com/emberhearth/hearth/internal/daemon/server"
	"github.com/emberhearth/hearth/internal/models"
	"github.com/emberhearth/hearth/internal/tui"
)

// dashboardLogFile receives log output while the dashboard owns the terminal.
const dashboardLogFile = "dashboard.log"

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Run servers from an interactive terminal dashboard",
	Long: `Open a terminal dashboard listing every project with its server status
and output. Servers started here are stopped when the dashboard exits.

The dashboard replaces the daemon and refuses to start while hearthd runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return runDashboard(settings)
	},
}

func runDashboard(settings *models.Settings) error {
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	if err := config.ClaimDaemon(models.NewDaemonInfo(os.Getpid(), models.HostDashboard, false, settings.Mode)); err != nil {
		return err
	}
	defer func() { _ = config.ReleaseDaemon(os.Getpid()) }()

	dir, err := config.GlobalDir()
	if err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(dir, dashboardLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	// Loggers copy the output on creation, so redirect before building anything.
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)

	ember, err := server.NewEmberCLI(settings)
	if err != nil {
		return err
	}
	// The dashboard shows every transition itself; no desktop notifications.
	d, err := newDaemon(settings, ember, nil)
	if err != nil {
		return err
	}
	defer d.shutdown()

	d.start()
	return tui.Run(d, d.bus)
}
