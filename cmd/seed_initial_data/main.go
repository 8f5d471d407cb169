package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"adaptive-iq/cmd/seed_initial_data/internal/seedmodels"
	"adaptive-iq/internal/config"
	"adaptive-iq/internal/database"
	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/logger"
	"adaptive-iq/internal/repository"
	"adaptive-iq/internal/service"

	"go.uber.org/zap"
)

const defaultSeedFilePath = "configs/seed_data/iq_questions.json"

func main() {
	seedFile := flag.String("file", defaultSeedFilePath, "path to the seed JSON file")
	force := flag.Bool("force", false, "import even when the domain already has questions (duplicates are still skipped)")
	flag.Parse()

	ctx := context.Background()
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

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Loading seed data from file", zap.String("path", *seedFile))
	byteValue, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFile), zap.Error(err))
	}

	var banks []seedmodels.SeedBank
	if err := json.Unmarshal(byteValue, &banks); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	batch := service.NewBatchService(questionRepo, nil, repository.NewTransactionManagerAdapter(db), log)

	for _, bank := range banks {
		domainName := bank.Domain
		if domainName == "" {
			domainName = domain.DefaultDomain
		}

		existing, err := questionRepo.CountByDomain(ctx, domainName)
		if err != nil {
			log.Fatal("Failed to count existing questions", zap.String("domain", domainName), zap.Error(err))
		}
		if existing > 0 && !*force {
			log.Info("Domain already seeded, skipping (use -force to import anyway)",
				zap.String("domain", domainName),
				zap.Int("existing", existing))
			continue
		}

		questions := make([]*domain.Question, 0, len(bank.Questions))
		for _, sq := range bank.Questions {
			questions = append(questions, sq.ToDomain(domainName))
		}

		saved, err := batch.ImportQuestions(ctx, domainName, questions)
		if err != nil {
			log.Error("Error seeding domain, transaction rolled back", zap.String("domain", domainName), zap.Error(err))
			continue
		}
		log.Info("Seeded domain", zap.String("domain", domainName), zap.Int("saved", saved), zap.Int("in_file", len(questions)))
	}
	log.Info("Initial data seeding process completed.")
}
