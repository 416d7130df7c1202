package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/intent"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database contents and classifier state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()

			stats, err := a.store.Stats(ctx)
			if err != nil {
				return err
			}
			phraseCounts, err := a.store.CountPhrasesByLabel(ctx)
			if err != nil {
				return err
			}
			schema, _ := a.db.Version()

			dbSize, _ := a.db.Size()

			fmt.Printf("\nDatabase:  %s (%s, schema v%d)\n", a.db.Path(), formatBytes(dbSize), schema)
			fmt.Printf("Time zone: %s\n", a.loc)
			fmt.Printf("Tasks:     %d open, %d total\n", stats.OpenTasks, stats.Tasks)
			fmt.Printf("Notes:     %d\n", stats.Notes)
			fmt.Printf("Reminders: %d pending\n", stats.PendingReminders)
			fmt.Printf("Events:    %d\n", stats.Events)
			fmt.Printf("Smalltalk: %d active patterns\n", stats.Patterns)
			fmt.Printf("Messages:  %d\n", stats.Messages)
			fmt.Printf("Phrases:   %d%s\n", stats.Phrases, describePhraseCounts(phraseCounts))

			msg := a.train(ctx)
			fmt.Printf("Model:     %s\n", msg)
			fmt.Println()

			return nil
		},
	}
}

// describePhraseCounts renders " (3 tasks, 1 notes)" in label order.
func describePhraseCounts(counts map[string]int) string {
	var parts []string
	for _, l := range intent.Labels() {
		if n := counts[l.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, l))
		}
	}
	var unknown []string
	for label, n := range counts {
		if _, ok := intent.ParseLabel(label); !ok && n > 0 {
			unknown = append(unknown, fmt.Sprintf("%d %s?", n, label))
		}
	}
	slices.Sort(unknown)
	parts = append(parts, unknown...)
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
