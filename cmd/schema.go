package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/KaramelBytes/incidentscope-cli/internal/utils"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	schemaDelimiter string
	schemaSheet     string
	schemaJSON      bool
)

type schemaReport struct {
	Source       string                           `json:"source"`
	Rows         int                              `json:"rows"`
	Columns      int                              `json:"columns"`
	Fields       []schema.FieldColumn             `json:"fields"`
	Unrecognized []string                         `json:"unrecognized,omitempty"`
	Features     map[schema.Feature]schema.Status `json:"features"`
	Warnings     []string                         `json:"warnings,omitempty"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema [file]",
	Short: "Show which columns were recognized and which dashboard features they enable",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		c, err := openSession(path, schemaDelimiter, schemaSheet)
		if err != nil {
			return err
		}
		raw := c.Raw()
		caps := c.Capabilities()
		rep := schemaReport{
			Source:       c.Source(),
			Rows:         len(raw.Rows),
			Columns:      len(raw.Columns),
			Fields:       caps.Fields(raw.Columns),
			Unrecognized: caps.Unrecognized(raw.Columns),
			Features:     map[schema.Feature]schema.Status{},
			Warnings:     c.Warnings(),
		}
		for _, f := range schema.Ordered() {
			rep.Features[f] = caps.Status(f)
		}
		out := cmd.OutOrStdout()
		if schemaJSON {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}

		fmt.Fprintf(out, "Source: %s (%s rows, %d columns)\n", rep.Source, humanize.Comma(int64(rep.Rows)), rep.Columns)
		fmt.Fprintln(out, "\nRecognized columns:")
		for _, fc := range rep.Fields {
			fmt.Fprintf(out, "  - %s\n", fc)
		}
		if len(rep.Unrecognized) > 0 {
			fmt.Fprintf(out, "\nUnrecognized columns: %s\n", strings.Join(rep.Unrecognized, ", "))
		}
		fmt.Fprintln(out, "\nFeatures:")
		for _, f := range schema.Ordered() {
			st := rep.Features[f]
			switch st.State {
			case schema.Enabled:
				fmt.Fprintf(out, "  ✓ %s\n", f)
			case schema.Degraded:
				fmt.Fprintf(out, "  ⚠ %s (degraded: %s)\n", f, st.Reason)
			default:
				missing := make([]string, len(st.Missing))
				for i, m := range st.Missing {
					missing[i] = string(m)
				}
				fmt.Fprintf(out, "  ✗ %s (missing: %s)\n", f, strings.Join(missing, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVar(&schemaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (sniffed if omitted)")
	schemaCmd.Flags().StringVar(&schemaSheet, "sheet", "", "XLSX: sheet name (first sheet if omitted)")
	schemaCmd.Flags().BoolVar(&schemaJSON, "json", false, "print the report as JSON")
}
