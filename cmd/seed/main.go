package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smartrw/api/internal/auth"
	"github.com/smartrw/api/internal/db"
	"github.com/smartrw/api/internal/rbac"
	"github.com/smartrw/api/internal/repo"
	"github.com/smartrw/api/internal/rt"
)

// seed mengisi akun admin awal dan beberapa RT contoh. Aman dijalankan
// berulang; baris yang sudah ada dilewati.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		log.Fatal().Msg("DB_DSN wajib diisi")
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("koneksi database gagal")
	}
	defer pool.Close()

	queries := repo.New(pool)

	adminEmail := strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL"))
	if adminEmail == "" {
		adminEmail = "admin@smartrw.com"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123456"
	}

	hash, err := auth.Hash(adminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("hash kata sandi gagal")
	}

	_, err = queries.InsertUser(ctx, repo.User{
		ID:           uuid.New(),
		Name:         "Admin Smart RW",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         string(rbac.RoleAdmin),
		Active:       true,
	})
	switch {
	case err == nil:
		log.Info().Str("email", adminEmail).Msg("akun admin dibuat")
	case repo.IsUniqueViolation(err):
		log.Info().Str("email", adminEmail).Msg("akun admin sudah ada; dilewati")
	default:
		log.Fatal().Err(err).Msg("seed admin gagal")
	}

	rtService := rt.NewService(rt.NewRepository(pool))
	samples := []rt.CreateInput{
		{Number: "001", RWNumber: "001", Chairperson: "Budi Santoso"},
		{Number: "002", RWNumber: "001", Chairperson: "Siti Aminah"},
		{Number: "003", RWNumber: "001", Chairperson: "Agus Wijaya"},
	}
	for _, input := range samples {
		if _, err := rtService.Create(ctx, input); err != nil {
			if errors.Is(err, rt.ErrDuplicateNumber) {
				log.Info().Str("rt", input.Number).Msg("RT sudah ada; dilewati")
				continue
			}
			log.Fatal().Err(err).Str("rt", input.Number).Msg("seed RT gagal")
		}
		log.Info().Str("rt", input.Number).Msg("RT contoh dibuat")
	}

	log.Info().Msg("seed selesai")
}
