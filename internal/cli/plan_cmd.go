package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/config"
	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/metrics"
	"github.com/spf13/cobra"
)

type planOptions struct {
	gantt bool
	watch bool
	now   string
	sites []string
}

func newPlanCmd(app *App) *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Schedule every site and print the plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewPlanRequest()
			if opts.now != "" {
				now, err := parseDateFlag("now", opts.now)
				if err != nil {
					return err
				}
				req.Now = &now
			}
			for _, s := range opts.sites {
				site, err := resolveSite(cmd.Context(), app, s)
				if err != nil {
					return err
				}
				req.SiteScope = append(req.SiteScope, site.ID)
			}

			out := cmd.OutOrStdout()
			if opts.watch {
				return watchPlan(cmd.Context(), out, app, req, opts.gantt)
			}
			return renderPlan(cmd.Context(), out, app, req, opts.gantt)
		},
	}

	cmd.Flags().BoolVar(&opts.gantt, "gantt", false, "Render a day-by-day bar chart")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-plan whenever the config file changes")
	cmd.Flags().StringVar(&opts.now, "now", "", "Plan as of this date instead of today")
	cmd.Flags().StringSliceVar(&opts.sites, "site", nil, "Only show these sites (repeatable)")

	return cmd
}

func renderPlan(ctx context.Context, w io.Writer, app *App, req contract.PlanRequest, gantt bool) error {
	text, err := planText(ctx, app, req, gantt)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, text)
	return nil
}

// planText schedules req and renders it as the plan table or the Gantt view.
func planText(ctx context.Context, app *App, req contract.PlanRequest, gantt bool) (string, error) {
	if req.Now == nil {
		now := app.Clock()
		req.Now = &now
	}
	resp, err := app.Planner.Plan(ctx, req)
	if err != nil {
		return "", err
	}
	if !gantt {
		return formatter.FormatPlan(resp), nil
	}
	text := formatter.FormatGantt(resp)
	if len(resp.Blockers) > 0 {
		text += "\n" + formatter.FormatBlockers(resp.Blockers)
	}
	return text, nil
}

// applyConfig hands a reloaded scheduling section to the planner and
// reports whether it was accepted.
func applyConfig(app *App, cfg *config.Config) bool {
	sched, err := cfg.Scheduling.ToDomain()
	if err == nil {
		err = app.Planner.SetConfig(sched)
	}
	if err != nil {
		app.Log.Warn().Err(err).Msg("scheduling config rejected")
		return false
	}
	return true
}

// watchPlan re-renders the plan on every accepted config change until
// interrupted, serving /metrics meanwhile when metrics.addr is set. On a
// terminal the plan is shown full-screen and replaced in place.
func watchPlan(parent context.Context, w io.Writer, app *App, req contract.PlanRequest, gantt bool) error {
	if app.ConfigPath == "" {
		return fmt.Errorf("--watch needs a config file (--config or %s)", config.EnvConfigPath)
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.Config != nil && app.Config.Metrics.Addr != "" && app.Gatherer != nil {
		srv := &http.Server{
			Addr:              app.Config.Metrics.Addr,
			Handler:           metrics.Handler(app.Gatherer),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			app.Log.Info().Str("addr", srv.Addr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				app.Log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	body, err := planText(ctx, app, req, gantt)
	if err != nil {
		return err
	}
	if app.IsInteractive() {
		return runWatchView(ctx, app, req, gantt, body)
	}

	fmt.Fprintln(w, body)
	fmt.Fprintln(w, formatter.Dim(fmt.Sprintf("Watching %s; Ctrl-C to stop.", app.ConfigPath)))
	return config.Watch(ctx, app.ConfigPath, app.Log, func(cfg *config.Config) {
		if !applyConfig(app, cfg) {
			return
		}
		if err := renderPlan(ctx, w, app, req, gantt); err != nil {
			app.Log.Error().Err(err).Msg("re-plan failed")
		}
	})
}
