package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pinpost-app/pinpost-backend/config"
	"github.com/pinpost-app/pinpost-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(cfg.Database.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "schema bootstrap failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("schema up to date")
}
