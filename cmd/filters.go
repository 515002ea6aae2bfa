package cmd

import (
	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/spf13/cobra"
)

// selectionFlags holds the --year/--region/--type values of one command.
type selectionFlags struct {
	years   []string
	regions []string
	types   []string
}

func (s *selectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&s.years, "year", nil, "keep only these years (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&s.regions, "region", nil, "keep only these incident regions")
	cmd.Flags().StringSliceVar(&s.types, "type", nil, "keep only these incident types")
}

func (s *selectionFlags) selection() filter.Selection {
	return filter.Selection{
		filter.Year:   s.years,
		filter.Region: s.regions,
		filter.Type:   s.types,
	}.Clone()
}
