package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizcraft/internal/question"
	"quizcraft/internal/stats"
	"quizcraft/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats [folder]",
	Short: "Show quiz statistics",
	Long:  "Show aggregate statistics per folder, or per file when a folder is given.",
	Args:  cobra.MaximumNArgs(1),
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

		libPath, err := resolveLibraryPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve question directory: %w", err)
		}
		library := question.NewLibrary(libPath)
		agg := stats.NewAggregator(st.KV())
		recompute, _ := cmd.Flags().GetBool("recompute")

		if len(args) == 1 {
			return printFileStats(cmd, library, agg, args[0], recompute)
		}

		folders, err := library.Folders()
		if err != nil {
			return err
		}
		for _, folder := range folders {
			var fs stats.FolderStats
			if recompute {
				fs, err = agg.RecomputeFolder(ctx, folder)
			} else {
				fs, err = agg.Folder(ctx, folder)
			}
			if err != nil {
				return err
			}
			if fs.QuizzesCompleted == 0 {
				cmd.Printf("%-24s no quizzes completed\n", folder)
				continue
			}
			cmd.Printf("%-24s %3d quizzes  %4d/%d correct  avg %3ds  best %3ds  streak %d\n",
				folder, fs.QuizzesCompleted, fs.CorrectAnswers, fs.TotalQuestions,
				fs.AverageTime, fs.BestTime, fs.LongestStreak)
		}
		return nil
	},
}

func printFileStats(cmd *cobra.Command, library *question.Library, agg *stats.Aggregator, folder string, recompute bool) error {
	ctx := cmd.Context()

	files, err := library.Files(folder)
	if err != nil {
		return err
	}
	for _, file := range files {
		var fs stats.FileStats
		if recompute {
			fs, err = agg.RecomputeFile(ctx, folder, file)
		} else {
			fs, err = agg.File(ctx, folder, file)
		}
		if err != nil {
			return err
		}
		if fs.Attempts == 0 {
			cmd.Printf("%-28s no attempts\n", file)
			continue
		}
		cmd.Printf("%-28s %3d attempts  %4d/%d correct  best score %3.0f%%  avg %3ds\n",
			file, fs.Attempts, fs.CorrectAnswers, fs.TotalQuestions,
			fs.BestScore, fs.AverageTime)
	}
	return nil
}

func init() {
	statsCmd.Flags().Bool("recompute", false, "Rebuild aggregates from quiz history before printing")
}
