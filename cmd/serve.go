package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/incidentscope-cli/internal/chart"
	"github.com/KaramelBytes/incidentscope-cli/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveDelimiter string
	serveSheet     string
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve the dashboard as a JSON/PNG HTTP API",
	Long: `Serve starts an HTTP API over one dataset session. Without a file it starts from
the bundled sample; clients replace it with POST /api/dataset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		opt, err := loadOptions(serveDelimiter, serveSheet)
		if err != nil {
			return err
		}
		c, err := openSession(path, serveDelimiter, serveSheet)
		if err != nil {
			return err
		}
		conf := current()
		addr := conf.ServerAddr
		if cmd.Flags().Changed("addr") || addr == "" {
			addr = serveAddr
		}
		srv := server.New(server.Config{
			Addr:           addr,
			MaxUploadBytes: int64(conf.MaxUploadMB) << 20,
			Report:         reportOptions(),
			Chart:          chart.Size{Width: conf.ChartWidth, Height: conf.ChartHeight},
			Load:           opt,
			Cache:          newCache(),
		}, c)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving %s on http://%s\n", c.Source(), addr)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "listen address (overrides config server_addr)")
	serveCmd.Flags().StringVar(&serveDelimiter, "delimiter", "", "CSV delimiter for the initial file and uploads")
	serveCmd.Flags().StringVar(&serveSheet, "sheet", "", "XLSX: sheet name for the initial file and uploads")
}
