package cli

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHolidayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holiday",
		Short: "Manage non-working days",
	}

	cmd.AddCommand(
		newHolidayAddCmd(app),
		newHolidayListCmd(app),
		newHolidayRemoveCmd(app),
		newHolidaySeedCmd(app),
	)

	return cmd
}

func newHolidayAddCmd(app *App) *cobra.Command {
	var date, label string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a holiday",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDateFlag("date", date)
			if err != nil {
				return err
			}
			h, err := app.Holidays.Add(cmd.Context(), d, label)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added holiday %s %s\n", formatter.FormatDate(h.Date), h.Label)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date")
	cmd.Flags().StringVar(&label, "label", "", "Description")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newHolidayListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List holidays by date",
		RunE: func(cmd *cobra.Command, args []string) error {
			holidays, err := app.Holidays.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(holidays) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No holidays found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHolidayList(holidays))
			return nil
		},
	}
}

func newHolidayRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID|DATE",
		Short: "Remove a holiday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveHolidayID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Holidays.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed holiday %s\n", shortID(id))
			return nil
		},
	}
}

func newHolidaySeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the bundled bank holidays, keeping existing dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Holidays.Seed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", formatter.Plural(n, "holiday"))
			return nil
		},
	}
}
