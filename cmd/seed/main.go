package main

import (
	"context"
	"log"
	"os"

	"studybuddy-be/internal/config"
	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/pkg/apperror"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/pkg/token"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/internal/service"
	"studybuddy-be/pkg/database"
	"studybuddy-be/pkg/events"
)

// Seeds a demo student account so a fresh database can be logged into.
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	tokens, err := token.NewIssuer(cfg.Security.SecretKey, cfg.Security.Algorithm, cfg.TokenTTL())
	if err != nil {
		log.Fatal("Error: ", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction(), cfg.App.Debug)
	defer sysLogger.Sync()

	authService := service.NewAuthService(unitofwork.NewRepositoryFactory(db), tokens, events.NopPublisher{}, sysLogger)

	fullName := "Demo Student"
	req := &dto.RegisterRequest{
		Email:    getEnv("SEED_EMAIL", "demo@studybuddy.local"),
		Username: getEnv("SEED_USERNAME", "demo"),
		FullName: &fullName,
		Password: getEnv("SEED_PASSWORD", "password123"),
	}

	log.Println("Seeding demo account...")
	res, err := authService.Register(context.Background(), req)
	if apperror.Is(err, apperror.KindConflict) {
		log.Printf("Account %s already exists, nothing to do", req.Username)
		return
	}
	if err != nil {
		log.Fatal("Error: Failed to seed account:", err)
	}

	log.Printf("Seeded %s (%s), token: %s", res.User.Username, res.User.Id, res.AccessToken)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
