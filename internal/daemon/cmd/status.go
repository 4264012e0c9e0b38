package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberhearth/hearth/internal/config"
	"github.com/emberhearth/hearth/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which hearthd process owns the servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		info, err := config.RunningDaemon()
		if err != nil {
			return err
		}
		reg, err := openRegistry()
		if err != nil {
			return err
		}

		fmt.Print(renderStatus(info, settings, len(reg.List()), time.Now()))
		return nil
	},
}

func renderStatus(info *models.DaemonInfo, settings *models.Settings, projects int, now time.Time) string {
	active := settings.ActiveProject
	if active == "" {
		active = "none"
	}

	if info == nil {
		return fmt.Sprintf("  %s %s\n    %s %d\n    %s   %s\n",
			styleBrand.Render("hearthd"),
			styleHint.Render("not running"),
			styleLabel.Render("Projects"), projects,
			styleLabel.Render("Active"), styleValue.Render(active),
		)
	}

	return fmt.Sprintf("  %s %s\n    %s      %d\n    %s     %s\n    %s   %s\n    %s %d\n    %s   %s\n",
		styleBrand.Render("hearthd"),
		styleSuccess.Render(info.Describe()),
		styleLabel.Render("PID"), info.PID,
		styleLabel.Render("Mode"), styleValue.Render(string(info.Mode)),
		styleLabel.Render("Uptime"), styleValue.Render(info.Uptime(now).String()),
		styleLabel.Render("Projects"), projects,
		styleLabel.Render("Active"), styleValue.Render(active),
	)
}
