package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/daemon/project"
	"github.com/emberhearth/hearth/internal/daemon/server"
	"github.com/emberhearth/hearth/internal/models"
	"github.com/emberhearth/hearth/internal/notify"
)

var production bool

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Run one project's server in the foreground until interrupted",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build a project with ember build",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	serveCmd.Flags().BoolVar(&production, "production", false, "Use the production environment")
	buildCmd.Flags().BoolVar(&production, "production", false, "Use the production environment")
}

var errNoProject = errors.New("no project given and no active project set")

// resolveProject returns the project named by args, or the active project.
func resolveProject(args []string, settings *models.Settings) (models.Project, error) {
	path := settings.ActiveProject
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return models.Project{}, errNoProject
	}

	reg := project.NewRegistry(nil, nil)
	if err := reg.Load(); err == nil {
		if p, ok := reg.Find(path); ok {
			return p, nil
		}
	}
	p := models.NewProject("", path)
	p.LoadNameFromManifest()
	return p, nil
}

func modeFlag(settings *models.Settings) models.Mode {
	if production {
		return models.ModeProduction
	}
	return settings.Mode
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	p, err := resolveProject(args, settings)
	if err != nil {
		return err
	}
	ember, err := server.NewEmberCLI(settings)
	if err != nil {
		return err
	}

	logger := log.WithPrefix("serve")
	bus := broadcast.New()
	notifier := notify.NewDispatcher(&notify.Desktop{}, nil, settings.Notifications)
	defer notifier.Close()
	servers := server.New(server.Options{
		Spawner:    ember,
		Bus:        bus,
		Dispatcher: notifier,
		Mode:       modeFlag(settings),
	})
	defer servers.Close()

	finished := make(chan struct{}, 1)
	bus.SubscribeAll(func(e broadcast.Event) {
		switch e.Kind {
		case broadcast.ServerStarted:
			fmt.Printf("%s %s %s\n", statusBadge(e.Status), styleValue.Render(e.Project.DisplayName()), styleLabel.Render(e.URL))
		case broadcast.ServerStarting:
			fmt.Printf("%s %s\n", statusBadge(e.Status), styleValue.Render(e.Project.DisplayName()))
		case broadcast.ServerStopped, broadcast.ServerStoppedWithError:
			fmt.Printf("%s %s\n", statusBadge(e.Status), styleValue.Render(e.Project.DisplayName()))
			select {
			case finished <- struct{}{}:
			default:
			}
		}
	})

	if err := servers.Start(p); err != nil {
		return err
	}

	go func() {
		waitForSignal(logger)
		select {
		case finished <- struct{}{}:
		default:
		}
	}()
	<-finished

	if servers.Status(p) == models.StatusErrored {
		for _, line := range servers.Output(p) {
			fmt.Fprintln(os.Stderr, styleHint.Render(line))
		}
		_ = servers.StopAll([]models.Project{p})
		return fmt.Errorf("server for %s failed", p.DisplayName())
	}
	return servers.StopAll([]models.Project{p})
}

func runBuild(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	p, err := resolveProject(args, settings)
	if err != nil {
		return err
	}
	ember, err := server.NewEmberCLI(settings)
	if err != nil {
		return err
	}

	mode := modeFlag(settings)
	fmt.Printf("%s %s %s\n", styleBrand.Render("Building"), styleValue.Render(p.DisplayName()), styleHint.Render("("+string(mode)+")"))
	out, err := ember.Build(cmd.Context(), p.Path, mode)
	fmt.Print(out)
	if err != nil {
		return err
	}
	fmt.Println(styleSuccess.Render("Build finished"))
	return nil
}
