package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aide-assistant/aide/internal/assistant"
	"github.com/aide-assistant/aide/internal/config"
	"github.com/aide-assistant/aide/internal/datetime"
	"github.com/aide-assistant/aide/internal/db"
	"github.com/aide-assistant/aide/internal/intent"
	"github.com/aide-assistant/aide/internal/smalltalk"
	"github.com/aide-assistant/aide/internal/store"
)

// app holds everything a command needs once config and database are open.
type app struct {
	cfg        config.Config
	loc        *time.Location
	db         *db.DB
	store      *store.Store
	classifier *intent.Classifier
	router     *assistant.Router
	logger     *zap.Logger
}

// openApp loads config, opens the database and wires the assistant. quiet
// raises the log level to warn for interactive commands whose stdout is
// the product.
func openApp(quiet bool) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(flagDebug || cfg.Log.Debug, quiet)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	st := store.NewStore(database)

	classifier := intent.New(st, cfg.Classifier, intent.WithLogger(logger))
	router := assistant.NewRouter(assistant.Deps{
		Tasks:      st,
		Notes:      st,
		Reminders:  st,
		Events:     st,
		About:      st,
		Classifier: classifier,
		Smalltalk:  smalltalk.New(st, logger),
		Extractor:  datetime.NewExtractor(loc),
		Clock:      datetime.SystemClock(loc),
		Threshold:  cfg.Classifier.Threshold,
		Logger:     logger,
	})

	return &app{
		cfg:        cfg,
		loc:        loc,
		db:         database,
		store:      st,
		classifier: classifier,
		router:     router,
		logger:     logger,
	}, nil
}

// train fits the classifier so the router can use it.
func (a *app) train(ctx context.Context) string {
	return a.classifier.Train(ctx)
}

func (a *app) Close() {
	_ = a.logger.Sync()
	a.db.Close()
}

// newLogger returns a development logger with debug on, otherwise a
// production logger. quiet keeps production output to warnings.
func newLogger(debug, quiet bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if quiet {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}
