package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/smalltalk"
)

func newSmalltalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smalltalk",
		Short: "Manage custom smalltalk replies",
	}
	cmd.AddCommand(
		newSmalltalkAddCmd(),
		newSmalltalkListCmd(),
		newSmalltalkToggleCmd("enable", true),
		newSmalltalkToggleCmd("disable", false),
	)
	return cmd
}

func newSmalltalkAddCmd() *cobra.Command {
	var isRegex bool

	cmd := &cobra.Command{
		Use:   "add <pattern> <answers>",
		Short: "Add a smalltalk pattern",
		Long: `Add a pattern and its replies. Answers are separated by '|' or newlines; one
is picked at random. Without --regex the pattern matches as a case-insensitive
substring. The newest matching pattern wins.`,
		Example: `  aide smalltalk add "good night" "Sleep well!|Night night."
  aide smalltalk add --regex "^(sup|wassup)" "Not much, you?"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := strings.TrimSpace(args[0])
			if pattern == "" {
				return fmt.Errorf("pattern is empty")
			}
			if isRegex {
				if _, err := regexp.Compile(pattern); err != nil {
					return fmt.Errorf("invalid regex: %w", err)
				}
			}
			if len(smalltalk.SplitAnswers(args[1])) == 0 {
				return fmt.Errorf("no answers given")
			}

			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.store.AddPattern(cmd.Context(), pattern, isRegex, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Added smalltalk pattern #%d\n", p.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&isRegex, "regex", false, "treat the pattern as a regular expression")

	return cmd
}

func newSmalltalkListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List smalltalk patterns, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			patterns, err := a.store.ListPatterns(cmd.Context())
			if err != nil {
				return err
			}
			if len(patterns) == 0 {
				fmt.Println("No smalltalk patterns.")
				return nil
			}
			for _, p := range patterns {
				kind := "text "
				if p.IsRegex {
					kind = "regex"
				}
				state := ""
				if !p.Active {
					state = " (disabled)"
				}
				fmt.Printf("%4d  %s  %s%s\n", p.ID, kind, p.Pattern, state)
				for _, ans := range smalltalk.SplitAnswers(p.Answers) {
					fmt.Printf("        -> %s\n", ans)
				}
			}
			return nil
		},
	}
}

func newSmalltalkToggleCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a smalltalk pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.SetPatternActive(cmd.Context(), id, active); err != nil {
				return err
			}
			fmt.Printf("Pattern #%d %sd.\n", id, use)
			return nil
		},
	}
}
