package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizcraft/internal/stats"
	"quizcraft/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset <folder> [file]",
	Short: "Reset statistics for a folder or file",
	Long:  "Delete the stored statistics and quiz history for a folder, or for one file within it.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		agg := stats.NewAggregator(st.KV())

		if len(args) == 2 {
			if err := agg.ResetFile(ctx, args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Reset statistics for %s/%s\n", args[0], args[1])
			return nil
		}

		if err := agg.ResetFolder(ctx, args[0]); err != nil {
			return err
		}
		cmd.Printf("Reset statistics for %s\n", args[0])
		return nil
	},
}
