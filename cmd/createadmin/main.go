// Command createadmin seeds an administrator account. Admins cannot
// register over HTTP, so this is the only way to create one.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"go.uber.org/zap"

	"github.com/GlebRadaev/afriart/internal/config"
	"github.com/GlebRadaev/afriart/internal/dto"
	"github.com/GlebRadaev/afriart/internal/pg"
	"github.com/GlebRadaev/afriart/internal/repo"
	"github.com/GlebRadaev/afriart/internal/service/authservice"
	"github.com/GlebRadaev/afriart/pkg/auth"
	"github.com/GlebRadaev/afriart/pkg/logger"
)

func main() {
	var req dto.CreateAdminDTO
	flag.StringVar(&req.Name, "name", "", "admin display name")
	flag.StringVar(&req.Email, "email", "", "admin email")
	flag.StringVar(&req.Password, "password", "", "admin password")

	cfg := config.New()
	if err := logger.InitLogger(cfg); err != nil {
		log.Fatal().Err(err).Msg("Can't init logger")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, req); err != nil {
		zap.L().Error("create admin failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, req dto.CreateAdminDTO) error {
	pool, err := pgxpool.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err = pool.Ping(ctx); err != nil {
		return err
	}
	if err = pg.RunMigrations(pool); err != nil {
		return err
	}

	repos := repo.New(pg.New(pool), pg.NewTXManager(pool), nil)
	authService := authservice.New(repos.UserRepo, repos.AdminRepo, repos.TokenRepo,
		&auth.HashService{}, auth.NewJWTService(cfg.JWTSecret), cfg.TokenTTL)

	admin, err := authService.CreateAdmin(ctx, req)
	if err != nil {
		return err
	}
	zap.L().Info("admin ready", zap.Int("id", admin.ID), zap.String("email", admin.Email))
	return nil
}
