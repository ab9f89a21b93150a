package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Show recently completed matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []MatchSummary

			path := fmt.Sprintf("/api/matches/recent?limit=%d", limit)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")

	return cmd
}
