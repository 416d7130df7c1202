package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aide-assistant/aide/internal/assistant"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant line by line",
		Long: `Start a conversation. On a terminal this is an interactive prompt; type
'exit' or press Ctrl-D to leave. When stdin is not a terminal each input line
is answered in turn, which makes it easy to script.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			a.train(ctx)

			interactive := term.IsTerminal(int(os.Stdin.Fd()))
			if interactive {
				fmt.Println("aide is listening. Type 'help' for examples, 'exit' to quit.")
			}
			return converse(ctx, a.router, os.Stdin, os.Stdout, interactive)
		},
	}
}

// converse answers each line from in. With prompt set it shows "> " and
// stops on "exit" or "quit".
func converse(ctx context.Context, router *assistant.Router, in io.Reader, out io.Writer, prompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if prompt {
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}
		}
		fmt.Fprintln(out, router.Handle(ctx, line))
		if prompt {
			fmt.Fprintln(out)
		}
	}
	if prompt {
		fmt.Fprintln(out)
	}
	return scanner.Err()
}
