package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberhearth/hearth/internal/config"
	"github.com/emberhearth/hearth/internal/daemon/project"
	"github.com/emberhearth/hearth/internal/manifest"
	"github.com/emberhearth/hearth/internal/models"
)

var projectName string

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"p"},
	Short:   "Manage tracked projects",
}

var projectsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked projects",
	RunE:    runProjectsList,
}

var projectsAddCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Track an ember project (defaults to the current directory)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjectsAdd,
}

var projectsRemoveCmd = &cobra.Command{
	Use:     "remove <path>",
	Aliases: []string{"rm"},
	Short:   "Stop tracking a project",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectsRemove,
}

var projectsActivateCmd = &cobra.Command{
	Use:   "activate <path>",
	Short: "Select the project shown in the status bar",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsActivate,
}

func init() {
	projectsAddCmd.Flags().StringVar(&projectName, "name", "", "Display name (default: name from package.json)")

	projectsCmd.AddCommand(projectsActivateCmd)
	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsRemoveCmd)
}

// openRegistry loads the project list without a server controller. A
// running daemon picks up the saved file through its watcher.
func openRegistry() (*project.Registry, error) {
	reg := project.NewRegistry(nil, nil)
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return reg, nil
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	list := reg.List()
	if len(list) == 0 {
		fmt.Println(styleHint.Render("No projects. Add one with: hearthd projects add <path>"))
		return nil
	}
	for _, p := range list {
		marker := " "
		if p.Path != "" && p.Path == settings.ActiveProject {
			marker = styleSuccess.Render("*")
		}
		fmt.Printf("%s %s  %s\n", marker, styleValue.Render(p.DisplayName()), styleLabel.Render(p.Path))
	}
	return nil
}

func runProjectsAdd(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(); err != nil {
		return err
	}
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	reg, err := openRegistry()
	if err != nil {
		return err
	}
	p, err := reg.Add(models.NewProject(projectName, path))
	if err != nil {
		return err
	}

	if pkg, err := manifest.Read(p.Path); err != nil || !pkg.UsesEmberCLI() {
		fmt.Println(styleWarning.Render("Warning:") + " " + styleHint.Render("no ember-cli dependency found in package.json"))
	}
	fmt.Printf("%s %s %s\n", styleSuccess.Render("Added"), styleValue.Render(p.DisplayName()), styleLabel.Render(p.Path))
	return nil
}

func runProjectsRemove(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(); err != nil {
		return err
	}
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	if err := reg.Remove(models.Project{Path: args[0]}); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", styleSuccess.Render("Removed"), styleLabel.Render(args[0]))
	return nil
}

func runProjectsActivate(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	p, ok := reg.Find(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", project.ErrNotFound, args[0])
	}

	settings.ActiveProject = p.Path
	if err := config.SaveSettings(settingsPath, settings); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", styleSuccess.Render("Active:"), styleValue.Render(p.DisplayName()))
	return nil
}
