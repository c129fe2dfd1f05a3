package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stormteams/AIChat-sub000/internal/chat"
	"github.com/stormteams/AIChat-sub000/internal/config"
	"github.com/stormteams/AIChat-sub000/internal/httpapi"
	"github.com/stormteams/AIChat-sub000/internal/knowledge"
	"github.com/stormteams/AIChat-sub000/internal/llm"
	"github.com/stormteams/AIChat-sub000/internal/logging"
	"github.com/stormteams/AIChat-sub000/internal/profile"
	"github.com/stormteams/AIChat-sub000/internal/services"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chatd HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	return cmd
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logging.Sync(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	registry, cleanup, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	server, err := httpapi.NewServer(registry.Chat(), logger, &httpapi.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("creating http server: %w", err)
	}

	logger.Info("chatd started",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("knowledge_dir", cfg.Knowledge.Dir),
	)
	return server.Start(ctx)
}

// buildServices constructs the dependency graph from config. The returned
// cleanup closes everything that owns resources.
func buildServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.Registry, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Knowledge bases: in-memory snapshot cache fed by the YAML loader.
	kbStore := knowledge.NewMemoryStore()
	loader, err := knowledge.NewLoader(cfg.Knowledge.Dir, kbStore)
	if err != nil {
		return nil, nil, fmt.Errorf("creating knowledge loader: %w", err)
	}
	loaded, err := loader.LoadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading knowledge bases: %w", err)
	}
	logger.Info("knowledge bases loaded", zap.Int("agents", loaded))

	if cfg.Knowledge.Watch {
		watcher, err := knowledge.NewWatcher(loader, logger.Named("knowledge"))
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("creating knowledge watcher: %w", err)
		}
		watcher.Start(ctx)
		closers = append(closers, func() { watcher.Close() })
	}

	// Profile persistence: SQLite when a path is configured, else in-memory.
	var profiles profile.Store
	if cfg.Profile.DBPath != "" {
		sqlStore, err := profile.NewSQLiteStore(cfg.Profile.DBPath)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("opening profile store: %w", err)
		}
		closers = append(closers, func() { sqlStore.Close() })
		profiles = sqlStore
	} else {
		logger.Warn("no profile.db_path configured, profiles are in-memory only")
		profiles = profile.NewMemoryStore()
	}

	// LLM client serves both the reply path and keyword extraction.
	client, err := llm.NewClient(llm.Config{
		BaseURL:    cfg.LLM.BaseURL,
		APIKey:     cfg.LLM.APIKey,
		Model:      cfg.LLM.Model,
		TimeoutSec: cfg.LLM.TimeoutSec,
		RateLimit:  cfg.LLM.RateLimit,
		MaxRetries: cfg.LLM.MaxRetries,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating llm client: %w", err)
	}

	var keywords llm.KeywordExtractor = llm.NoopKeywordExtractor{}
	if cfg.LLM.Keywords {
		keywords, err = llm.NewChatKeywordExtractor(client)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("creating keyword extractor: %w", err)
		}
	}

	chatSvc, err := chat.NewService(chat.Options{
		Knowledge: kbStore,
		Profiles:  profiles,
		Keywords:  keywords,
		Chatter:   client,
		Metrics:   chat.NewMetrics(prometheus.DefaultRegisterer),
		Logger:    logger.Named("chat"),
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating chat service: %w", err)
	}

	registry := services.NewRegistry(services.Options{
		Chat:      chatSvc,
		Knowledge: kbStore,
		Profiles:  profiles,
		Keywords:  keywords,
	})
	return registry, cleanup, nil
}
