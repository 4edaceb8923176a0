package cli

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/spf13/cobra"
)

func newStepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Mark, move and pin the stages of a site",
	}

	cmd.AddCommand(
		newStepDoneCmd(app),
		newStepMoveCmd(app),
		newStepReleaseCmd(app),
		newStepConfirmCmd(app),
		newStepDurationCmd(app),
	)

	return cmd
}

// stepTarget resolves the SITE argument and --task flag shared by every
// step subcommand.
func stepTarget(cmd *cobra.Command, app *App, siteArg string, task *taskFlag) (*domain.Site, domain.TaskType, error) {
	t, err := task.get()
	if err != nil {
		return nil, "", err
	}
	site, err := resolveSite(cmd.Context(), app, siteArg)
	if err != nil {
		return nil, "", err
	}
	return site, t, nil
}

func newStepDoneCmd(app *App) *cobra.Command {
	var task taskFlag

	cmd := &cobra.Command{
		Use:   "done SITE",
		Short: "Toggle a stage done; done stages are pinned where they are scheduled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, t, err := stepTarget(cmd, app, args[0], &task)
			if err != nil {
				return err
			}
			st, err := app.Steps.ToggleDone(cmd.Context(), site.ID, t)
			if err != nil {
				return err
			}
			if st.Done {
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %s done for %s (%s to %s)\n",
					t.Label(), site.DisplayName(), formatter.FormatDate(st.Start), formatter.FormatDate(st.Finish))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %s not done for %s\n", t.Label(), site.DisplayName())
			}
			return nil
		},
	}

	cmd.Flags().Var(&task, "task", "Stage")

	return cmd
}

func newStepMoveCmd(app *App) *cobra.Command {
	var task taskFlag
	var date string

	cmd := &cobra.Command{
		Use:   "move SITE",
		Short: "Pin a stage to start on a date (snapped to the next workday)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDateFlag("date", date)
			if err != nil {
				return err
			}
			site, t, err := stepTarget(cmd, app, args[0], &task)
			if err != nil {
				return err
			}
			if err := app.Steps.Move(cmd.Context(), site.ID, t, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s of %s to %s\n", t.Label(), site.DisplayName(), formatter.FormatDate(d))
			return nil
		},
	}

	cmd.Flags().Var(&task, "task", "Stage")
	cmd.Flags().StringVar(&date, "date", "", "Start date")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newStepReleaseCmd(app *App) *cobra.Command {
	var task taskFlag

	cmd := &cobra.Command{
		Use:   "release SITE",
		Short: "Drop the pinned start of a stage that is not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, t, err := stepTarget(cmd, app, args[0], &task)
			if err != nil {
				return err
			}
			if err := app.Steps.ClearManualStart(cmd.Context(), site.ID, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Released %s of %s\n", t.Label(), site.DisplayName())
			return nil
		},
	}

	cmd.Flags().Var(&task, "task", "Stage")

	return cmd
}

func newStepConfirmCmd(app *App) *cobra.Command {
	var task taskFlag
	var unset, no bool

	cmd := &cobra.Command{
		Use:   "confirm SITE",
		Short: "Mark a stage confirmed (or tentative with --no)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, t, err := stepTarget(cmd, app, args[0], &task)
			if err != nil {
				return err
			}

			var confirmed *bool
			msg := "follows the site status"
			if !unset {
				v := !no
				confirmed = &v
				msg = "confirmed"
				if no {
					msg = "tentative"
				}
			}
			if err := app.Steps.SetConfirmed(cmd.Context(), site.ID, t, confirmed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s of %s %s\n", t.Label(), site.DisplayName(), msg)
			return nil
		},
	}

	cmd.Flags().Var(&task, "task", "Stage")
	cmd.Flags().BoolVar(&no, "no", false, "Mark tentative instead")
	cmd.Flags().BoolVar(&unset, "unset", false, "Follow the site status again")
	cmd.MarkFlagsMutuallyExclusive("no", "unset")

	return cmd
}

func newStepDurationCmd(app *App) *cobra.Command {
	var task taskFlag
	var days int

	cmd := &cobra.Command{
		Use:   "duration SITE",
		Short: "Set the stored duration of a stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, t, err := stepTarget(cmd, app, args[0], &task)
			if err != nil {
				return err
			}
			if err := app.Steps.SetDuration(cmd.Context(), site.ID, t, days); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s of %s now takes %s\n", t.Label(), site.DisplayName(), formatter.Plural(days, "day"))
			return nil
		},
	}

	cmd.Flags().Var(&task, "task", "Stage")
	cmd.Flags().IntVar(&days, "days", 0, "Workdays")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}
