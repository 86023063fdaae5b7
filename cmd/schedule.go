package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quizcraft/internal/question"
	"quizcraft/internal/scheduled"
	"quizcraft/internal/stars"
	"quizcraft/internal/store"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage scheduled quizzes",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, scheduler, err := openScheduler(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		quizzes, err := scheduler.List(ctx)
		if err != nil {
			return err
		}
		if len(quizzes) == 0 {
			cmd.Println("No scheduled quizzes.")
			return nil
		}
		for _, q := range quizzes {
			done, err := scheduler.IsCompleted(ctx, q.ID)
			if err != nil {
				return err
			}
			mark := " "
			if done {
				mark = "✓"
			}
			cmd.Printf("%s %-36s  %2d questions  %s  %s\n",
				mark, q.Name, len(q.Questions), q.Folder,
				q.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var scheduleGenerateCmd = &cobra.Command{
	Use:   "generate <folder>",
	Short: "Generate a quiz from a folder's starred questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, scheduler, err := openScheduler(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		libPath, err := resolveLibraryPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve question directory: %w", err)
		}

		name, _ := cmd.Flags().GetString("name")
		limit, _ := cmd.Flags().GetInt("limit")

		q, err := scheduler.Generate(cmd.Context(), question.NewLibrary(libPath), args[0], name, limit)
		if err != nil {
			return err
		}
		cmd.Printf("Generated %q with %d questions\n", q.Name, len(q.Questions))
		return nil
	},
}

func openScheduler(cmd *cobra.Command) (*store.Store, *scheduled.Scheduler, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	kv := st.KV()
	return st, scheduled.NewScheduler(kv, stars.NewRegistry(kv)), nil
}

func init() {
	scheduleGenerateCmd.Flags().String("name", "", "Name for the generated quiz")
	scheduleGenerateCmd.Flags().Int("limit", 0, "Maximum number of questions (0 = all starred)")

	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleGenerateCmd)
}
