package main

import (
	"context"
	"log"
	"os"

	"farmpos/internal/config"
	"farmpos/internal/db"
	profilerepo "farmpos/internal/repository/profile"
	"farmpos/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	profiles := profilerepo.NewPostgres(pool, logger)
	if err := seed.Apply(ctx, pool, profiles); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
