package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/extract"
	logpkg "github.com/maroco/majormentor/internal/logger"
	"github.com/maroco/majormentor/internal/metrics"
	catalogrepo "github.com/maroco/majormentor/internal/repository/catalog"
	courserepo "github.com/maroco/majormentor/internal/repository/course"
	chiTransport "github.com/maroco/majormentor/internal/transport/chi"
	openaiTransport "github.com/maroco/majormentor/internal/transport/openai"
	askuc "github.com/maroco/majormentor/internal/usecase/ask"
	cataloguc "github.com/maroco/majormentor/internal/usecase/catalog"
	healthuc "github.com/maroco/majormentor/internal/usecase/health"
	recommenduc "github.com/maroco/majormentor/internal/usecase/recommend"
	retrieveuc "github.com/maroco/majormentor/internal/usecase/retrieve"
	usageuc "github.com/maroco/majormentor/internal/usecase/usage"
	"github.com/maroco/majormentor/internal/version"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Run: func(_ *cobra.Command, _ []string) {
			runServe()
		},
	}
}

func runServe() {
	a := newApp()
	defer a.close()

	cfg := a.cfg
	logger := a.logger

	logger.Info("Starting mentor API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()
	a.connect(ctx)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterChatMetrics()

	budget := a.budgetChecker(ctx)
	queryEmbedder := a.buildEmbedder(cfg.Embedding.QueryInstruction, budget)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", a.vectorDim()),
	)

	composer := openaiTransport.NewComposer(&openaiTransport.ComposerConfig{
		APIKey:      cfg.Chat.APIKey,
		BaseURL:     cfg.Chat.BaseURL,
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
		Provider:    cfg.Chat.Provider,
		Logger:      logger,
	})

	// Flat catalog stores
	loader := catalogrepo.NewLoader(
		cfg.Data.MajorDetailPath,
		cfg.Data.UnivMappingPath,
		cfg.Data.MajorCategoriesPath,
	)
	records, err := loader.MajorRecords()
	if err != nil {
		logger.Fatal("Failed to load major catalog", zap.Error(err))
	}
	mappings, err := loader.UniversityMappings()
	if err != nil {
		logger.Fatal("Failed to load university mappings", zap.Error(err))
	}
	categories, err := loader.Categories()
	if err != nil {
		logger.Fatal("Failed to load major categories", zap.Error(err))
	}
	logger.Info("Catalog loaded",
		zap.Int("majors", len(records)),
		zap.Int("universities", len(mappings)),
		zap.Int("categories", len(categories)),
	)

	// Vector search repositories, one per document collection
	courseRepo := courserepo.New(a.store, "course")
	majorRepo := courserepo.New(a.store, "major")

	// Use case services
	extractor := extract.New(mappings)
	retriever := retrieveuc.New(courseRepo, queryEmbedder, metrics.RetrievalFallbackTotal, logger)
	askSvc := askuc.New(extractor, retriever, composer, cfg.Retrieval.SearchK, logger)
	catalogSvc := cataloguc.New(records, categories, majorRepo, queryEmbedder, logger)
	recommendSvc := recommenduc.New(
		majorRepo, queryEmbedder,
		cfg.Retrieval.RecommendTopK, cfg.Retrieval.RecommendLimit, logger,
	)

	// Usage service — reads from shared BudgetTracker
	var budgetReader usageuc.BudgetReader
	if a.budget != nil {
		budgetReader = a.budget
	}
	usageSvc := usageuc.New(budgetReader)

	healthSvc := healthuc.New(a.store, newEmbeddingHealthChecker(queryEmbedder), composer)

	server := chiTransport.NewServer(askSvc, catalogSvc, recommendSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Mount("/", server.Router(cfg.Auth.APIKeys))

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
