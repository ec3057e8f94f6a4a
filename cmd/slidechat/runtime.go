package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"slidechat/internal/config"
	"slidechat/internal/gateway"
	"slidechat/internal/i18n"
	"slidechat/internal/logging"
	"slidechat/internal/orchestrator"
	"slidechat/internal/repl"
	"slidechat/internal/storage"
	"slidechat/internal/tui"
)

// runtime 已装配的配置、日志、存储与文案
// runtime bundles the loaded config with its logger, store and catalog.
type runtime struct {
	cfg   config.Config
	log   *zap.Logger
	store *storage.SQLiteStore
	cat   *i18n.I18n
}

func loadRuntime(flags *rootFlags) (*runtime, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}

	locale := cfg.UI.Locale
	if locale == "" {
		locale = i18n.DetectLocale()
	}
	i18n.Init(locale)

	log, err := logging.New(cfg.Log.Level, cfg.LogPath())
	if err != nil {
		return nil, err
	}
	store, err := storage.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.Debug("store opened", zap.String("path", store.Path()))
	return &runtime{cfg: cfg, log: log, store: store, cat: i18n.Global()}, nil
}

func (rt *runtime) Close() {
	if rt.store != nil {
		_ = rt.store.Close()
	}
	_ = rt.log.Sync()
}

// newGenerator 返回直连模型的生成器；未配置 API key 时返回 nil
// newGenerator returns the model-backed generator, or nil when no API key
// is configured.
func newGenerator(cfg config.Config, log *zap.Logger) (*gateway.OpenAIGenerator, error) {
	gen, err := gateway.NewOpenAIGenerator(gateway.GeneratorConfig{
		BaseURL:           cfg.Provider.BaseURL,
		APIKey:            cfg.Provider.APIKey,
		Model:             cfg.Provider.Model,
		TimeoutMS:         cfg.Provider.TimeoutMS,
		ContentTokenLimit: cfg.Provider.ContentTokenLimit,
	}, log)
	if errors.Is(err, gateway.ErrNotConfigured) {
		return nil, nil
	}
	return gen, err
}

// newGateway 按 gateway.mode 构造客户端
// newGateway builds the gateway client for the configured mode.
func newGateway(cfg config.Config, log *zap.Logger) (gateway.Gateway, error) {
	client := gateway.NewHTTPClient(cfg.Gateway.BaseURL,
		time.Duration(cfg.Gateway.TimeoutMS)*time.Millisecond, log.Named("gateway"))
	if cfg.Gateway.Mode != config.ModeDirect {
		return client, nil
	}
	gen, err := newGenerator(cfg, log.Named("generator"))
	if err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, fmt.Errorf("gateway mode %q: %w", config.ModeDirect, gateway.ErrNotConfigured)
	}
	return &gateway.Direct{HTTPClient: client, Generator: gen}, nil
}

func (rt *runtime) orchestrator() (*orchestrator.Orchestrator, error) {
	gw, err := newGateway(rt.cfg, rt.log)
	if err != nil {
		return nil, err
	}
	outputDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve cwd: %w", err)
	}
	return orchestrator.New(orchestrator.Options{
		Gateway:   gw,
		Store:     rt.store,
		Catalog:   rt.cat,
		Log:       rt.log,
		OutputDir: outputDir,
	}), nil
}

func runChat(ctx context.Context, rt *runtime) error {
	orch, err := rt.orchestrator()
	if err != nil {
		return err
	}
	interactive := repl.IsTerminal(os.Stdin)
	input, inputErr := repl.NewLineInput(rt.cfg.HistoryPath(), interactive)
	if inputErr != nil {
		fmt.Fprintf(os.Stderr, "line editor unavailable, fallback to basic input: %v\n", inputErr)
	}
	defer input.Close()

	rt.log.Info("chat started",
		zap.String("gateway", rt.cfg.Gateway.BaseURL),
		zap.String("mode", rt.cfg.Gateway.Mode),
		zap.String("locale", rt.cat.Locale()),
	)
	fmt.Println(rt.cat.T("repl.welcome", rt.cfg.Gateway.BaseURL, rt.cfg.Gateway.Mode))
	loop := repl.NewLoop(orch, input, os.Stdout, repl.UseColor(os.Stdout))
	return loop.Run(ctx)
}

func runTUI(ctx context.Context, rt *runtime) error {
	orch, err := rt.orchestrator()
	if err != nil {
		return err
	}
	rt.log.Info("tui started", zap.String("gateway", rt.cfg.Gateway.BaseURL))
	return tui.Run(ctx, orch)
}
