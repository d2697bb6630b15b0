package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDifficultiesCmd(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "difficulties",
		Short: "List the difficulty presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := config.catalog()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROWS\tCOLS\tMINES")
			for _, difficulty := range presets.All() {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n",
					difficulty.ID, difficulty.Name, difficulty.Rows, difficulty.Cols, difficulty.MineCount)
			}
			return w.Flush()
		},
	}
}
