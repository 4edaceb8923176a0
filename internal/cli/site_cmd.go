package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/service"
	"github.com/spf13/cobra"
)

func newSiteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage sites",
	}

	cmd.AddCommand(
		newSiteAddCmd(app),
		newSiteListCmd(app),
		newSiteRemoveCmd(app),
		newSiteConfirmCmd(app),
		newSiteDurationCmd(app),
		newSiteExcludeCmd(app, true),
		newSiteExcludeCmd(app, false),
	)

	return cmd
}

func newSiteAddCmd(app *App) *cobra.Command {
	var name, owner, notes, booked string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a site; without --name on a terminal, prompts for the fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				if !app.IsInteractive() {
					return fmt.Errorf("--name is required")
				}
				if err := siteForm(&name, &owner, &booked).Run(); err != nil {
					return err
				}
			}

			in := service.NewSite{Name: name, Owner: strings.TrimSpace(owner), Notes: notes}
			if strings.TrimSpace(booked) != "" {
				d, err := parseDateFlag("booked", booked)
				if err != nil {
					return err
				}
				in.BookedDate = &d
			}

			site, err := app.Sites.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created site %s [%s]\n", site.DisplayName(), shortID(site.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Site name")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&booked, "booked", "", "Booked date; the site stays TBC without it")

	return cmd
}

func newSiteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sites in plan order",
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := app.Sites.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(sites) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sites found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSiteList(sites, app.Clock()))
			return nil
		},
	}
}

func newSiteRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove SITE",
		Short: "Delete a site and its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := resolveSite(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Sites.Remove(cmd.Context(), site.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed site %s\n", site.DisplayName())
			return nil
		},
	}
}

func newSiteConfirmCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "confirm SITE",
		Short: "Book a TBC site on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDateFlag("date", date)
			if err != nil {
				return err
			}
			site, err := resolveSite(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Sites.Confirm(cmd.Context(), site.ID, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booked %s on %s\n", site.DisplayName(), formatter.FormatDate(d))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Booked date")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newSiteDurationCmd(app *App) *cobra.Command {
	var task taskFlag
	var days int
	var unset bool

	cmd := &cobra.Command{
		Use:   "duration SITE",
		Short: "Override a stage's duration for one site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := task.get()
			if err != nil {
				return err
			}
			if !unset && !cmd.Flags().Changed("days") {
				return fmt.Errorf("--days or --clear is required")
			}
			site, err := resolveSite(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			if unset {
				if err := app.Sites.ClearSiteDuration(cmd.Context(), site.ID, t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s override for %s\n", t.Label(), site.DisplayName())
				return nil
			}
			if err := app.Sites.SetSiteDuration(cmd.Context(), site.ID, t, days); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s of %s now takes %s\n", t.Label(), site.DisplayName(), formatter.Plural(days, "day"))
			return nil
		},
	}

	cmd.Flags().Var(&task, "task", "Stage, e.g. pre_work or \"Site visit\"")
	cmd.Flags().IntVar(&days, "days", 0, "Workdays")
	cmd.Flags().BoolVar(&unset, "clear", false, "Remove the override")
	cmd.MarkFlagsMutuallyExclusive("days", "clear")

	return cmd
}

func newSiteExcludeCmd(app *App, exclude bool) *cobra.Command {
	var task taskFlag

	use, short, verb := "exclude SITE", "Skip a stage for one site", "Excluded"
	if !exclude {
		use, short, verb = "include SITE", "Schedule a previously excluded stage again", "Included"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := task.get()
			if err != nil {
				return err
			}
			site, err := resolveSite(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Sites.SetExcluded(cmd.Context(), site.ID, t, exclude); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s for %s\n", verb, t.Label(), site.DisplayName())
			return nil
		},
	}

	cmd.Flags().Var(&task, "task", "Stage")

	return cmd
}

// dateOrToday parses an optional --now style flag.
func dateOrToday(app *App, flag, s string) (time.Time, error) {
	if s == "" {
		return app.Clock(), nil
	}
	return parseDateFlag(flag, s)
}
