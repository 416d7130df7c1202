package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aide-assistant/aide/internal/corpus"
	"github.com/aide-assistant/aide/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP and websocket",
		Long: `Start the HTTP server. POST /api/chat answers one message; /ws/chat keeps a
websocket conversation open. Admin routes require server.admin_token.

With --watch, phrase files in corpus.dir are imported on startup and
re-imported whenever they change, retraining the classifier each time new
phrases arrive.

Press Ctrl-C to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("classifier", zap.String("result", a.train(ctx)))

			if watch {
				if a.cfg.Corpus.Dir == "" {
					return fmt.Errorf("--watch needs corpus.dir set in the config file")
				}
				w, err := corpus.NewWatcher(a.cfg.Corpus.Dir, a.store, a.classifier.Train,
					time.Duration(a.cfg.Corpus.DebounceMs)*time.Millisecond, a.logger)
				if err != nil {
					return err
				}
				if _, err := w.Sync(ctx); err != nil {
					a.logger.Warn("initial corpus sync failed", zap.Error(err))
				}
				go func() {
					if err := w.Run(ctx); err != nil {
						a.logger.Error("corpus watcher stopped", zap.Error(err))
					}
				}()
			}

			srv := server.New(a.router, a.classifier, a.store, a.cfg.Server, a.logger)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "import and watch phrase files in corpus.dir")

	return cmd
}
