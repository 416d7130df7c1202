package cli

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/aide-assistant/aide/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the assistant as MCP tools over stdio",
		Long: `Run an MCP server on stdin/stdout exposing the tools chat, retrain,
classifier_status and add_training_phrase. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			a.train(cmd.Context())
			return mcpserver.NewServer(a.router, a.classifier, a.store, version, a.logger).ServeStdio()
		},
	}
}
