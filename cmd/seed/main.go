// Command seed creates the initial admin account if one does not exist.
// It is a one-shot tool intended for fresh environments: run once, then
// manage admins through the service itself.
//
// Credentials come from ADMIN_EMAIL, ADMIN_USERNAME, and ADMIN_PASSWORD;
// the connection settings are the same MONGO_* variables userd reads.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"

	"github.com/pairprep/identity/internal/core/domain"
	"github.com/pairprep/identity/internal/infrastructure/db/mongo"
)

type seedConfig struct {
	Email    string `env:"ADMIN_EMAIL,    default=admin@pairprep.local"`
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Password string `env:"ADMIN_PASSWORD, required"`

	Mongo struct {
		URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
		Database string `env:"MONGO_DB,  default=pairprep_users"`
	}
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatal().Err(err).Msg("load seed configuration")
	}
	if !domain.ValidPassword(cfg.Password) {
		log.Fatal().Msg(fmt.Sprintf(
			"ADMIN_PASSWORD must be at least %d characters and contain an uppercase letter",
			domain.MinPasswordLength))
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect to mongodb")
	}
	defer client.Disconnect(ctx)

	repo := mongo.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure user indexes")
	}

	if _, err := repo.FindByEmail(ctx, cfg.Email); err == nil {
		log.Info().Str("email", cfg.Email).Msg("admin user already exists, skipping seed")
		return
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		log.Fatal().Err(err).Msg("look up admin user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash admin password")
	}

	created, err := repo.Create(ctx, &domain.User{
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// A concurrent seed may have won the race on the unique index.
		if errors.Is(err, domain.ErrEmailTaken) {
			log.Info().Str("email", cfg.Email).Msg("admin user already exists, skipping seed")
			return
		}
		log.Fatal().Err(err).Msg("create admin user")
	}

	log.Info().Str("email", created.Email).Str("id", created.ID).Msg("admin user created")
}
