package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/config"
	"github.com/alexanderramin/siteplan/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sites    service.SiteService
	Steps    service.StepService
	Holidays service.HolidayService
	Planner  service.PlanService
	Import   service.ImportService
	Export   service.ExportService

	Config     *config.Config
	ConfigPath string
	Log        zerolog.Logger
	// Gatherer backs /metrics during `plan --watch`. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	IsInteractive func() bool
	Clock         func() time.Time
	// Close releases the store once the command finishes.
	Close func() error
}

// Options carries the global flags into the Builder.
type Options struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
}

// Builder wires an App for one invocation, after flags are parsed.
type Builder func(ctx context.Context, opts Options) (*App, error)

// NewRootCmd creates the top-level "siteplan" command. The App is built
// lazily so the global flags can shape it.
func NewRootCmd(build Builder) *cobra.Command {
	var opts Options
	app := &App{}

	root := &cobra.Command{
		Use:           "siteplan",
		Short:         "Capacity-aware scheduler for site survey work",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			*app = *built
			if app.Clock == nil {
				app.Clock = func() time.Time { return time.Now().UTC() }
			}
			if app.IsInteractive == nil {
				app.IsInteractive = func() bool { return false }
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.Close == nil {
				return nil
			}
			if err := app.Close(); err != nil {
				return fmt.Errorf("closing store: %w", err)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "Config file (YAML or JSON); defaults to $SITEPLAN_CONFIG or ~/.siteplan/config.yaml")
	pf.StringVar(&opts.DBPath, "db", "", "SQLite plan store; overrides database.path")
	pf.StringVar(&opts.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error); overrides log.level")

	root.AddCommand(
		newSiteCmd(app),
		newStepCmd(app),
		newHolidayCmd(app),
		newPlanCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newConfigCmd(app),
	)

	return root
}
