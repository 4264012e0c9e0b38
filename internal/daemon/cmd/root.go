// Package cmd implements the hearthd commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/emberhearth/hearth/internal/config"
	"github.com/emberhearth/hearth/internal/models"
)

var (
	settingsPath string
	logLevel     string
	foreground   bool
)

var rootCmd = &cobra.Command{
	Use:   "hearthd",
	Short: "Run and supervise ember development servers from the menu bar",
	Long: `hearthd keeps a list of ember projects and runs "ember serve" for them,
showing server state in the status bar and in desktop notifications.

Without a subcommand it starts the daemon.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		return runDaemon(settings, foreground)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", "", "settings file (default ~/.hearth/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "Run without the status bar item (for development)")

	// Subcommands (alphabetical)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads settings and configures the default logger.
func loadSettings() (*models.Settings, error) {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	levelName := settings.LogLevel
	if logLevel != "" {
		levelName = logLevel
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)

	return settings, nil
}
