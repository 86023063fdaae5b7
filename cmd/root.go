package cmd

import (
	"github.com/spf13/cobra"

	"quizcraft/internal/question"
	"quizcraft/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizcraft",
	Short: "Terminal quiz practice",
	Long:  "QuizCraft — a terminal app for practicing multiple-choice quizzes from local question sets.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZCRAFT_DB env var)")
	rootCmd.PersistentFlags().String("questions", "", "Path to question-set directory (overrides QUIZCRAFT_QUESTIONS env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZCRAFT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveLibraryPath returns the question directory using --questions
// (highest priority), then QUIZCRAFT_QUESTIONS, then the default XDG path.
func resolveLibraryPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("questions"); p != "" {
		return p, nil
	}
	return question.DefaultLibraryPath()
}
