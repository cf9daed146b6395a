package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mroshb/roommatch/internal/config"
	"github.com/mroshb/roommatch/internal/database"
	"github.com/mroshb/roommatch/internal/importer"
	"github.com/mroshb/roommatch/internal/repositories"
	"github.com/mroshb/roommatch/internal/services"
	"github.com/mroshb/roommatch/pkg/logger"
)

func main() {
	file := flag.String("file", "", "path of the .xlsx workbook to import")
	generate := flag.Bool("generate", false, "run match generation for every imported user")
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: seeder -file users.xlsx [-generate]")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("Failed to open workbook", err)
	}
	defer f.Close()

	records, rowErrs, err := importer.ReadWorkbook(f)
	if err != nil {
		logger.Fatal("Failed to read workbook", err)
	}
	for _, re := range rowErrs {
		logger.Warn("Skipping row", "row", re.Row, "error", re.Err)
	}

	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	matchRepo := repositories.NewMatchRepository(db)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.GetJWTTTL())
	profileSvc := services.NewProfileService(profileRepo, userRepo)

	ctx := context.Background()
	sum := importer.New(authSvc, userRepo, profileSvc).Import(ctx, records)
	for _, re := range sum.Failed {
		logger.Warn("Row not imported", "row", re.Row, "error", re.Err)
	}

	if *generate {
		matchSvc := services.NewMatchService(profileRepo, matchRepo, userRepo, cfg.MatchStrictResponses)
		total, err := importer.GenerateAll(ctx, matchSvc, sum.UserIDs)
		if err != nil {
			logger.Fatal("Match generation failed", err)
		}
		logger.Info("Match generation finished", "created", total)
	}
}
