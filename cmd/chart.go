package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/incidentscope-cli/internal/chart"
	"github.com/KaramelBytes/incidentscope-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	chartKind       string
	chartOutputPath string
	chartDelimiter  string
	chartSheet      string
	chartWidth      int
	chartHeight     int
	chartFilters    selectionFlags
)

var chartCmd = &cobra.Command{
	Use:   "chart [file]",
	Short: "Render one dashboard view as a PNG chart",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if _, ok := chart.Kinds[strings.ToLower(chartKind)]; !ok {
			return fmt.Errorf("unknown --view: %s (use one of %s)", chartKind, strings.Join(chart.KindNames(), ", "))
		}
		c, err := openSession(path, chartDelimiter, chartSheet)
		if err != nil {
			return err
		}
		c = c.WithSelection(chartFilters.selection())

		size := chart.Size{Width: current().ChartWidth, Height: current().ChartHeight}
		if chartWidth > 0 {
			size.Width = chartWidth
		}
		if chartHeight > 0 {
			size.Height = chartHeight
		}
		if size.Width <= 0 {
			size.Width = 1024
		}
		if size.Height <= 0 {
			size.Height = 512
		}

		out := chartOutputPath
		if out == "" {
			out = strings.ToLower(chartKind) + ".png"
		}
		var buf bytes.Buffer
		if err := chart.Render(&buf, c, chartKind, reportOptions(), size); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s chart to %s\n", chartKind, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVar(&chartKind, "view", "trend", "chart to render: "+strings.Join(chart.KindNames(), " | "))
	chartCmd.Flags().StringVarP(&chartOutputPath, "output", "o", "", "output PNG path (default <view>.png)")
	chartCmd.Flags().StringVar(&chartDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe' (sniffed if omitted)")
	chartCmd.Flags().StringVar(&chartSheet, "sheet", "", "XLSX: sheet name (first sheet if omitted)")
	chartCmd.Flags().IntVar(&chartWidth, "width", 0, "image width in pixels (config chart_width if 0)")
	chartCmd.Flags().IntVar(&chartHeight, "height", 0, "image height in pixels (config chart_height if 0)")
	chartFilters.bind(chartCmd)
}
