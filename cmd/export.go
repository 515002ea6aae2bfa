package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/incidentscope-cli/internal/dataset"
	"github.com/KaramelBytes/incidentscope-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	exportOutputPath string
	exportDelimiter  string
	exportSheet      string
	exportFilters    selectionFlags
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the filtered incident rows as CSV, CSV.GZ or XLSX",
	Long: `Export applies the --year/--region/--type selection and writes the matching rows
with their original columns. The format follows the output extension.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		c, err := openSession(path, exportDelimiter, exportSheet)
		if err != nil {
			return err
		}
		c = c.WithSelection(exportFilters.selection())
		if err := c.Result().Err(); err != nil {
			return err
		}
		t := c.Working()
		var buf bytes.Buffer
		if err := dataset.Export(&buf, exportOutputPath, t.Columns, t.Rows()); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := utils.SafeWriteFile(exportOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows to %s\n", t.Len(), exportOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutputPath, "output", "o", dataset.DefaultExportName, "output path (.csv, .csv.gz or .xlsx)")
	exportCmd.Flags().StringVar(&exportDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (sniffed if omitted)")
	exportCmd.Flags().StringVar(&exportSheet, "sheet", "", "XLSX: sheet name (first sheet if omitted)")
	exportFilters.bind(exportCmd)
}
