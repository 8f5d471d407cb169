package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"adaptive-iq/internal/adapter/quizgen"
	"adaptive-iq/internal/config"
	"adaptive-iq/internal/database"
	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/logger"
	"adaptive-iq/internal/repository"
	"adaptive-iq/internal/service"

	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

func main() {
	domainName := flag.String("domain", domain.DefaultDomain, "question domain to extend")
	perDifficulty := flag.Int("per-difficulty", 2, "questions to request for each difficulty level")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	generator, err := newGenerator(cfg.LLM)
	if err != nil {
		log.Fatal("Failed to create question generator", zap.Error(err))
	}
	batch := service.NewBatchService(
		repository.NewQuestionDatabaseAdapter(db),
		generator,
		repository.NewTransactionManagerAdapter(db),
		log,
	)

	log.Info("Starting question generation",
		zap.String("domain", *domainName),
		zap.Int("per_difficulty", *perDifficulty),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	saved, err := batch.GenerateAndSave(context.Background(), *domainName, *perDifficulty)
	if err != nil {
		log.Fatal("Question generation failed", zap.Error(err))
	}
	log.Info("Question generation completed", zap.Int("saved", saved))
}

func newGenerator(cfg config.LLMConfig) (domain.QuestionGenerator, error) {
	switch cfg.Provider {
	case "", "ollama":
		if cfg.Server == "" {
			return nil, fmt.Errorf("llm.server (or LLM_SERVER) is required for ollama")
		}
		ollamaHTTPClient := &http.Client{Timeout: cfg.Timeout + 5*time.Second}
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.Server),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(ollamaHTTPClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		return quizgen.NewOllamaQuestionGenerator(llm, cfg.Timeout), nil
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("llm.api_key (or ANTHROPIC_API_KEY) is required for anthropic")
		}
		return quizgen.NewAnthropicQuestionGenerator(quizgen.NewAnthropicClient(cfg.APIKey), cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
