package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/petscare-dev/staff-allocator/backend/internal/config"
	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/repository"
	"github.com/petscare-dev/staff-allocator/backend/internal/seed"
	"github.com/petscare-dev/staff-allocator/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var emailDomain string

	flag.IntVar(&op, "op", 0, "operation (1: insert random staff members, 2: insert a random location with pattern, 3: load real sample data)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.StringVar(&emailDomain, "email-domain", "petscare.example", "domain for generated staff emails")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("unable to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not dial, so ping to fail fast on a bad DSN
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("unable to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("number of staff members must be positive")
			return
		}

		services, err := repo.GetAllServices(context.Background())
		if err != nil {
			slog.Error("unable to list services", slog.String("error", err.Error()))
			return
		}
		if len(services) == 0 {
			slog.Error("no services present, load sample data first (-op 3)")
			return
		}
		serviceIDs := make([]int64, 0, len(services))
		for _, s := range services {
			serviceIDs = append(serviceIDs, s.ID)
		}

		cnt := n
		for i := 0; i < n; i++ {
			staff := utils.GenerateRandomStaffMember(emailDomain, serviceIDs)
			if err := repo.CreateStaffMember(context.Background(), staff); err != nil {
				slog.Error("unable to insert staff member", slog.String("error", err.Error()))
				continue
			}
			cnt--
		}

		slog.Info("staff members inserted", slog.Int("count", n-cnt))
	case 2:
		location := &domain.Location{
			Name:     "Clinic " + utils.GenerateRandomFullName(),
			Timezone: "Europe/Berlin",
		}
		if err := repo.CreateLocation(context.Background(), location); err != nil {
			slog.Error("unable to insert location", slog.String("error", err.Error()))
			return
		}
		if err := repo.ReplacePatternDays(context.Background(), location.ID, utils.GenerateRandomPatternWeek()); err != nil {
			slog.Error("unable to insert pattern", slog.String("error", err.Error()))
			return
		}

		slog.Info("location inserted", slog.Int64("id", location.ID), slog.String("name", location.Name))
	case 3:
		seed.SeedRealData(repo)
	default:
		slog.Error("unknown operation")
	}
}
