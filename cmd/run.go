package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizcraft/internal/app"
	"quizcraft/internal/question"
	"quizcraft/internal/report"
	"quizcraft/internal/scheduled"
	"quizcraft/internal/stars"
	"quizcraft/internal/stats"
	"quizcraft/internal/store"
)

// runApp opens the store, builds the engine services, and launches the TUI.
func runApp(cmd *cobra.Command) error {
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

	kv := st.KV()
	registry := stars.NewRegistry(kv)

	return app.Run(app.Options{
		Provider:   question.NewLibrary(libPath),
		KV:         kv,
		Aggregator: stats.NewAggregator(kv),
		Registry:   registry,
		Scheduler:  scheduled.NewScheduler(kv, registry),
		Reporter:   report.NewReporter(kv),
	})
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the quiz interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}
