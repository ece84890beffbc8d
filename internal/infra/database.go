package infra

import (
	"fmt"

	"github.com/MaikonGithub/QualiCam/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx.
//
// TranslateError is enabled so that a primary-key collision surfaces as
// gorm.ErrDuplicatedKey — the insert is the final authority on chapa id
// uniqueness, not the label allocator's pre-check.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Chapa{},
		&model.Movimentacao{},
		&model.Retalho{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate does not handle.
// chapas ids are reusable after a transform, so the ledger and retalhos keep
// plain historical columns — these patches only drop any stale FK a previous
// deployment may have created from the old SQLite-era schema.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_movimentacoes_chapa') THEN
		    ALTER TABLE movimentacoes DROP CONSTRAINT fk_movimentacoes_chapa;
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_retalhos_chapa') THEN
		    ALTER TABLE retalhos DROP CONSTRAINT fk_retalhos_chapa;
		  END IF;
		END $$`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
