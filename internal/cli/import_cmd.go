package cli

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the stored plan with a JSON or YAML plan document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s, %s and %s from %s\n",
				formatter.Plural(res.SiteCount, "site"),
				formatter.Plural(res.StepCount, "step"),
				formatter.Plural(res.HolidayCount, "holiday"),
				args[0])
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var now string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Schedule the plan and write it as a JSON or YAML plan document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := dateOrToday(app, "now", now)
			if err != nil {
				return err
			}
			doc, err := app.Export.ExportPlan(cmd.Context(), args[0], &at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s and %s to %s\n",
				formatter.Plural(len(doc.Plan), "row"),
				formatter.Plural(len(doc.Holidays), "holiday"),
				args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&now, "now", "", "Plan as of this date instead of today")

	return cmd
}
