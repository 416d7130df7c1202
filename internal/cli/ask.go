package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "ask <utterance>",
		Short: "Send one message to the assistant and print the reply",
		Long: `Route a single utterance through the assistant and print its reply.

Examples:
  aide ask add task Buy milk tomorrow at 09:00
  aide ask "remind me in 10 minutes to stretch"
  aide ask "note Trip: Pack passport" --explain`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			a.train(ctx)

			res := a.router.Route(ctx, strings.Join(args, " "))
			if explain {
				source := "classifier"
				if res.ByRules {
					source = "rules"
				}
				fmt.Fprintf(os.Stderr, "intent: %s (%s, confidence %.2f)\n", res.Label, source, res.Confidence)
			}
			fmt.Println(res.Reply)
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "print the chosen intent to stderr")

	return cmd
}
