// Package migrations provisions the database schema.
package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/migrations/internal/m202610160001"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// List returns all migrations in the order they are applied.
func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID:       m202610160001.ID,
			Migrate:  m202610160001.Migrate,
			Rollback: m202610160001.Rollback,
		},
	}
}

func newMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	return gormigrate.New(db, gormigrate.DefaultOptions, List())
}

// Migrate applies all pending migrations.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	if err := newMigrator(db).Migrate(); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	log.Info().Str("version", List()[len(List())-1].ID).Msg("database schema is up to date")

	return nil
}

// Rollback reverts the most recently applied migration.
func Rollback(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	if err := newMigrator(db).RollbackLast(); err != nil {
		return errors.Wrap(err, "failed to roll back migration")
	}

	return nil
}

// Provisioned reports whether the system_info table exists.
func Provisioned(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	return db.Migrator().HasTable(&models.SystemInfo{})
}
