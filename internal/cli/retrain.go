package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/intent"
)

func newRetrainCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "retrain",
		Short: "Train the intent classifier and report the result",
		Long: `Train the intent classifier from the built-in seeds plus stored training
phrases and print the outcome.

The running server keeps its own model. Use --remote to ask the server at
server.addr to retrain instead (needs server.admin_token).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				cfg, err := config.Load(flagConfig)
				if err != nil {
					return err
				}
				return retrainRemote(cfg.Server)
			}

			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("  Training"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)
			msg := a.train(cmd.Context())
			_ = bar.Finish()

			fmt.Println(msg)
			printClassifierStatus(a.classifier.Status())
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "retrain the running server via POST /api/retrain")

	return cmd
}

func retrainRemote(cfg config.ServerConfig) error {
	if cfg.AdminToken == "" {
		return fmt.Errorf("server.admin_token is not set")
	}
	addr := cfg.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}

	req, err := http.NewRequest(http.MethodPost, "http://"+addr+"/api/retrain", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.AdminToken)

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("contact server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server answered %s", resp.Status)
	}

	var body struct {
		Message string `json:"message"`
		intent.Status
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	fmt.Println(body.Message)
	printClassifierStatus(body.Status)
	return nil
}

func printClassifierStatus(st intent.Status) {
	labels := make([]string, len(st.Labels))
	for i, l := range st.Labels {
		labels[i] = l.String()
	}
	fmt.Printf("\nEnabled:   %t\n", st.Enabled)
	fmt.Printf("Trained:   %t\n", st.Trained)
	fmt.Printf("Threshold: %.2f\n", st.Threshold)
	if st.Trained {
		fmt.Printf("Phrases:   %d\n", st.Phrases)
		fmt.Printf("Labels:    %s\n", strings.Join(labels, ", "))
	}
	fmt.Println()
}
