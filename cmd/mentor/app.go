package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/config"
	dbRedis "github.com/maroco/majormentor/internal/db/redis"
	"github.com/maroco/majormentor/internal/domain"
	logpkg "github.com/maroco/majormentor/internal/logger"
	"github.com/maroco/majormentor/internal/metrics"
	budgetrepo "github.com/maroco/majormentor/internal/repository/budget"
	"github.com/maroco/majormentor/internal/repository/embcache"
	openaiTransport "github.com/maroco/majormentor/internal/transport/openai"
	embeddinguc "github.com/maroco/majormentor/internal/usecase/embedding"
)

// app bundles the bootstrap shared by the serve and index commands.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  *dbRedis.Store
	budget *embeddinguc.BudgetTracker
}

func newApp() *app {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return &app{env: env, cfg: cfg, logger: logger}
}

// connect opens the Redis store and blocks until it answers pings.
func (a *app) connect(ctx context.Context) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    a.cfg.Database.Addrs,
		Password: a.cfg.Database.Password,
	})
	if err != nil {
		a.logger.Fatal("Failed to create database store", zap.Error(err))
	}
	a.store = store

	if err := store.WaitForReady(ctx, time.Duration(a.cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		a.logger.Fatal("Database not ready", zap.Error(err))
	}
	a.logger.Info("Connected to database")
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

// budgetChecker sets up the shared token budget tracker, or returns nil
// when no limits are configured.
//
// Pass nil interface (not typed nil pointer!) if budget is not configured.
// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
func (a *app) budgetChecker(ctx context.Context) embeddinguc.BudgetChecker {
	bcfg := a.cfg.Embedding.Budget
	if bcfg.DailyTokenLimit <= 0 && bcfg.MonthlyTokenLimit <= 0 {
		return nil
	}

	action := embeddinguc.BudgetActionWarn
	if bcfg.Action == "reject" {
		action = embeddinguc.BudgetActionReject
	}
	a.budget = embeddinguc.NewBudgetTracker(
		a.cfg.Embedding.Provider, bcfg.DailyTokenLimit, bcfg.MonthlyTokenLimit, action, a.logger,
	)
	// Connect persistence store — loads current counters from DB.
	a.budget.WithStore(ctx, budgetrepo.New(a.store, 48*time.Hour, 62*24*time.Hour))
	return a.budget
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction
func (a *app) buildEmbedder(instruction string, budget embeddinguc.BudgetChecker) domain.Embedder {
	cfg := a.cfg.Embedding

	// Base provider (with transport metrics built-in)
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     a.logger,
	})

	var embedder domain.Embedder = base
	if cfg.Cache {
		embedder = embcache.New(base, a.store, metrics.EmbeddingCacheTotal, a.logger)
	}

	// Instrumented (budget + metrics)
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, budget, a.logger)

	// Instruction prefix (outermost — cache key includes instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}

func (a *app) vectorDim() int {
	if a.cfg.Embedding.Dimensions > 0 {
		return a.cfg.Embedding.Dimensions
	}
	return domain.DefaultVectorConfig().Dimensions
}
