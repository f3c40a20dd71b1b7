package internal

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/feeflow/feeflow/internal/config"
	"github.com/feeflow/feeflow/internal/logger"
	"github.com/feeflow/feeflow/internal/postgres"
	"github.com/feeflow/feeflow/internal/repository"
	"github.com/feeflow/feeflow/internal/service"
	"github.com/jmoiron/sqlx"
)

// RepairVoucherNumbers rewrites every fallback-numbered voucher with a fresh
// sequential number from the counter. Safe to re-run: repaired vouchers no
// longer match the scan.
func RepairVoucherNumbers() error {
	isDryRun := os.Getenv("DRY_RUN") == "true"
	if isDryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	params, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	if isDryRun {
		vouchers, err := params.VoucherRepo.ListFallbackNumbered(ctx)
		if err != nil {
			return fmt.Errorf("failed to list fallback vouchers: %w", err)
		}
		for _, v := range vouchers {
			log.Printf("would repair voucher %s (number %s, period %s)", v.ID, v.Number, v.Period)
		}
		log.Printf("dry run complete: %d candidates", len(vouchers))
		return nil
	}

	result, err := service.NewRepairService(params).Run(ctx)
	if err != nil {
		return fmt.Errorf("repair run failed: %w", err)
	}

	log.Printf("repair complete: scanned=%d repaired=%d failed=%d",
		result.Scanned, result.Repaired, result.Failed)
	if result.Failed > 0 {
		log.Printf("failed voucher IDs: %v", result.FailedVoucherIDs)
	}
	return nil
}

// MigrateSchema applies the database schema
func MigrateSchema() error {
	params, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	params.Logger.Infow("schema applied")
	return nil
}

func bootstrap() (service.ServiceParams, *sqlx.DB, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return service.ServiceParams{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return service.ServiceParams{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		return service.ServiceParams{}, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	client := postgres.NewClient(db, log)

	params := service.NewServiceParams(
		log,
		cfg,
		client,
		repository.NewCounterRepository(client, log),
		repository.NewVoucherRepository(client, log),
		repository.NewLedgerRepository(client, log),
		repository.NewStudentDirectory(client, log),
		repository.NewOrgDirectory(client, log),
	)
	return params, db, nil
}
