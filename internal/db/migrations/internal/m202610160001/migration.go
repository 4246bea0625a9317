// Package m202610160001 creates the system_info table.
package m202610160001

import (
	"gorm.io/gorm"
)

// ID of this migration.
const ID = "202610160001"

// SystemInfo is the table layout at the time of this migration.
type SystemInfo struct {
	ID    uint64  `gorm:"primaryKey"`
	Key   string  `gorm:"size:100;uniqueIndex;not null"`
	Value *string `gorm:"type:text"`
	State string  `gorm:"type:text;default:'active'"`
}

// TableName returns the table name for SystemInfo.
func (SystemInfo) TableName() string {
	return "system_info"
}

// Migrate creates the table. Databases that already carry the table are left as they are.
func Migrate(tx *gorm.DB) error {
	return tx.Migrator().AutoMigrate(&SystemInfo{})
}

// Rollback drops the table.
func Rollback(tx *gorm.DB) error {
	return tx.Migrator().DropTable(&SystemInfo{})
}
