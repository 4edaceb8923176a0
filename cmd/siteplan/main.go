package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/siteplan/internal/cli"
	"github.com/alexanderramin/siteplan/internal/config"
	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/logging"
	"github.com/alexanderramin/siteplan/internal/metrics"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/alexanderramin/siteplan/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := cli.NewRootCmd(build).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// build wires config -> logger -> store -> repositories -> services.
func build(ctx context.Context, opts cli.Options) (*cli.App, error) {
	cfgPath := config.ResolvePath(opts.ConfigPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.DBPath != "" {
		cfg.Database.Path = opts.DBPath
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	sched, err := cfg.Scheduling.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("scheduling config: %w", err)
	}

	// Metrics
	var (
		recorder metrics.Recorder = metrics.Noop{}
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		sink, err := metrics.NewPromSink(reg, cfg.Metrics.Namespace)
		if err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		recorder, gatherer = sink, reg
	}

	// Open database
	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Wire repositories
	siteRepo := repository.NewSQLiteSiteRepo(database)
	holidayRepo := repository.NewSQLiteHolidayRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	observer := service.NewLogUseCaseObserver(logging.Component(log, "service"))
	planner := service.NewPlanService(uow, sched, logging.Component(log, "planner"), recorder, observer)
	clock := func() time.Time { return time.Now().UTC() }

	return &cli.App{
		Sites:    service.NewSiteService(siteRepo, uow),
		Steps:    service.NewStepService(uow, planner, clock, observer),
		Holidays: service.NewHolidayService(holidayRepo, uow),
		Planner:  planner,
		Import:   service.NewImportService(uow, planner, observer),
		Export:   service.NewExportService(planner),

		Config:     cfg,
		ConfigPath: cfgPath,
		Log:        log,
		Gatherer:   gatherer,

		// Forms only run on an interactive terminal.
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		Clock: clock,
		Close: database.Close,
	}, nil
}
