package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/report"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/KaramelBytes/incidentscope-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	dashOutputPath string
	dashFormat     string
	dashDelimiter  string
	dashSheet      string
	dashRecords    int
	dashViews      []string
	dashFilters    selectionFlags
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard [file]",
	Aliases: []string{"analyze"},
	Short:   "Build the incident dashboard for a CSV/XLSX file (the bundled sample when omitted)",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		format := strings.ToLower(strings.TrimSpace(dashFormat))
		if format != "md" && format != "json" {
			return fmt.Errorf("unsupported --format: %s (use md or json)", dashFormat)
		}
		c, err := openSession(path, dashDelimiter, dashSheet)
		if err != nil {
			return err
		}
		c = c.WithSelection(dashFilters.selection())

		opt := reportOptions()
		if dashRecords > 0 {
			opt.Records = dashRecords
		}
		d := report.Build(c, opt)
		if len(dashViews) > 0 {
			keep, err := parseViews(dashViews)
			if err != nil {
				return err
			}
			var views []report.View
			for _, v := range d.Views {
				if keep[v.Feature] {
					views = append(views, v)
				}
			}
			d.Views = views
		}

		var out []byte
		if format == "json" {
			if out, err = d.JSON(); err != nil {
				return err
			}
		} else {
			out = []byte(d.Markdown())
		}

		if dashOutputPath != "" {
			if err := utils.SafeWriteFile(dashOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote dashboard to %s\n", dashOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func parseViews(names []string) (map[schema.Feature]bool, error) {
	keep := map[schema.Feature]bool{}
	for _, n := range names {
		f := schema.Feature(strings.ToLower(strings.TrimSpace(n)))
		if !report.IsView(f) {
			valid := make([]string, len(report.Views))
			for i, v := range report.Views {
				valid[i] = string(v)
			}
			return nil, fmt.Errorf("unknown view %q (valid: %s)", n, strings.Join(valid, ", "))
		}
		keep[f] = true
	}
	return keep, nil
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().StringVarP(&dashOutputPath, "output", "o", "", "optional path to write the dashboard")
	dashboardCmd.Flags().StringVar(&dashFormat, "format", "md", "output format: md | json")
	dashboardCmd.Flags().StringVar(&dashDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (sniffed if omitted)")
	dashboardCmd.Flags().StringVar(&dashSheet, "sheet", "", "XLSX: sheet name (first sheet if omitted)")
	dashboardCmd.Flags().IntVar(&dashRecords, "records", 0, "rows to show in the record browser (configured default if 0)")
	dashboardCmd.Flags().StringSliceVar(&dashViews, "view", nil, "only include these views (repeatable)")
	dashFilters.bind(dashboardCmd)
}
