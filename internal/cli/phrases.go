package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/corpus"
	"github.com/aide-assistant/aide/internal/intent"
)

func newPhrasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phrases",
		Short: "Manage intent training phrases",
		Long: `Training phrases are labelled examples the intent classifier learns from,
on top of its built-in seeds. Changes take effect on the next retrain.`,
	}
	cmd.AddCommand(newPhrasesAddCmd(), newPhrasesListCmd(), newPhrasesImportCmd())
	return cmd
}

func newPhrasesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <label> <text>",
		Short: "Add one training phrase",
		Example: `  aide phrases add tasks "put bread on my list"
  aide phrases add reminders ping me later`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, ok := intent.ParseLabel(strings.ToLower(args[0]))
			if !ok {
				return fmt.Errorf("unknown label %q (valid: %s)", args[0], labelNames())
			}
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return fmt.Errorf("phrase text is empty")
			}

			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			added, err := a.store.AddPhrase(cmd.Context(), label.String(), text)
			if err != nil {
				return err
			}
			if !added {
				fmt.Printf("Already known: [%s] %s\n", label, text)
				return nil
			}
			fmt.Printf("Added [%s] %s\n", label, text)
			return nil
		},
	}
}

func newPhrasesListCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored training phrases",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			phrases, err := a.store.AllPhrases(cmd.Context())
			if err != nil {
				return err
			}

			n := 0
			for _, p := range phrases {
				if label != "" && p.Label != label {
					continue
				}
				fmt.Printf("%4d  %-10s %s\n", p.ID, p.Label, p.Text)
				n++
			}
			if n == 0 {
				fmt.Println("No training phrases stored.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "only show phrases with this label")

	return cmd
}

func newPhrasesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.toml>...",
		Short: "Import training phrases from TOML files",
		Long: `Import phrases from one or more TOML files of the form:

  [[phrase]]
  label = "tasks"
  text  = "put buy bread on my list"

Phrases that are already stored are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var all []corpus.Phrase
			for _, path := range args {
				phrases, err := corpus.Load(path)
				if err != nil {
					return err
				}
				all = append(all, phrases...)
			}

			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			bar := progressbar.NewOptions(len(all),
				progressbar.OptionSetDescription("  Importing phrases"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
			added, err := corpus.Import(cmd.Context(), a.store, all, func() { _ = bar.Add(1) })
			_ = bar.Finish()
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d new phrases (%d read).\n", added, len(all))
			if added > 0 {
				fmt.Println("Run 'aide retrain --remote' to update a running server.")
			}
			return nil
		},
	}
}

func labelNames() string {
	labels := intent.Labels()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.String()
	}
	return strings.Join(names, ", ")
}
