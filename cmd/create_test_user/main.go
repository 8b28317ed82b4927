package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"ecogrow/internal/config"
	"ecogrow/internal/db"
	"ecogrow/internal/domain"
	"ecogrow/internal/logger"
	"ecogrow/internal/repository"
	"ecogrow/internal/service"

	"github.com/google/uuid"
)

// Creates (or reuses) a profile and prints a bearer token for it.
func main() {
	id := flag.String("id", "", "profile id (random when empty)")
	name := flag.String("name", "Test Grower", "full name")
	coins := flag.Int64("coins", 0, "starting EcoCoins")
	admin := flag.Bool("admin", false, "grant the admin role")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	pool := db.Connect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	profiles := repository.NewProfileRepository(pool)
	roles := repository.NewRoleRepository(pool)

	if *id == "" {
		*id = uuid.NewString()
	}

	p, err := profiles.GetByID(ctx, *id)
	switch {
	case err == nil:
		logger.Info("profile already exists", "id", p.ID, "eco_coins", p.EcoCoins)
	case errors.Is(err, repository.ErrNotFound):
		p = &domain.Profile{ID: *id, FullName: *name, EcoCoins: *coins}
		if err := profiles.Create(ctx, p); err != nil {
			logger.Fatal("create profile failed", "error", err)
		}
		logger.Info("profile created", "id", p.ID)
	default:
		logger.Fatal("load profile failed", "error", err)
	}

	if *admin {
		if err := roles.Grant(ctx, p.ID, domain.RoleAdmin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			logger.Fatal("grant admin failed", "error", err)
		}
		logger.Info("admin role granted", "id", p.ID)
	}

	sessions := service.NewSessionManager(cfg.JWTSecret, cfg.JWTTTL, nil)
	token, _, err := sessions.Issue(p.ID)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Println(token)
}
