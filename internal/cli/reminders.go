package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Work with reminders",
	}
	cmd.AddCommand(newRemindersDeliverCmd())
	return cmd
}

func newRemindersDeliverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deliver",
		Short: "Print reminders that are due and mark them delivered",
		Long: `Print every pending reminder whose time has come, then mark them all
delivered in one step. Run it from cron or a systemd timer; aide has no
scheduler of its own.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			now := time.Now()

			pending, err := a.store.ListReminders(ctx, true)
			if err != nil {
				return err
			}
			for _, r := range pending {
				if r.DueAt.After(now) {
					continue
				}
				fmt.Printf("[%s] %s\n", r.DueAt.In(a.loc).Format("2006-01-02 15:04"), r.Message)
			}

			n, err := a.store.MarkDueRemindersDelivered(ctx, now)
			if err != nil {
				return err
			}
			fmt.Printf("Marked %d reminder(s) delivered.\n", n)
			return nil
		},
	}
}
