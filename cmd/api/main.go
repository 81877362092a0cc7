package main

import (
	"context"
	"log"
	"net"

	"github.com/pinpost-app/pinpost-backend/config"
	"github.com/pinpost-app/pinpost-backend/internal/auth"
	"github.com/pinpost-app/pinpost-backend/internal/blob"
	"github.com/pinpost-app/pinpost-backend/internal/bootstrap"
	"github.com/pinpost-app/pinpost-backend/internal/maintenance"
	"github.com/pinpost-app/pinpost-backend/internal/posts"
	"github.com/pinpost-app/pinpost-backend/internal/users"
)

const serviceName = "pinpost-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	cache, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, search cache disabled: %v", err)
		cache = nil
	}
	if cache != nil {
		defer cache.Close()
	}

	authClient, err := auth.InitializeFirebase(cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	if authClient == nil {
		log.Println("firebase credentials not configured, falling back to X-User-Id header")
	}

	var photos, profiles *blob.Container
	if cfg.Blob.PhotosURL != "" {
		if photos, err = blob.NewContainer(cfg.Blob.PhotosURL); err != nil {
			log.Fatalf("photos container: %v", err)
		}
	}
	if cfg.Blob.ProfilesURL != "" {
		if profiles, err = blob.NewContainer(cfg.Blob.ProfilesURL); err != nil {
			log.Fatalf("profiles container: %v", err)
		}
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		DB:          pool,
		Cache:       cache,
		Photos:      photos,
		Profiles:    profiles,
		AuthClient:  authClient,
	})

	if photos != nil && profiles != nil {
		postRepo := posts.NewRepo(pool)
		userRepo := users.NewRepo(pool)
		sweeper := maintenance.NewSweeper([]maintenance.Target{
			{Name: "photos", Store: photos, Refs: postRepo.ImageURLs},
			{Name: "profiles", Store: profiles, Refs: userRepo.ProfilePhotoURLs},
		})
		maintenance.NewScheduler(sweeper).Start()
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	log.Printf("%s %s listening on %s", serviceName, cfg.App.Version, addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
