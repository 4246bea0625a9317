package session

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/models"
)

// keyColumn is quoted by gorm, "key" is a reserved word in mysql.
var keyColumn = clause.Column{Name: "key"}

// Session is a transaction handle scoped to a single request or command.
// It is not safe for concurrent use.
type Session struct {
	db *gorm.DB
	tx *gorm.DB
}

// New creates a session on top of db. No transaction is opened until the first statement.
func New(db *gorm.DB) (*Session, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Session{db: db}, nil
}

// InTransaction reports whether the session holds an open transaction.
func (s *Session) InTransaction() bool {
	return s.tx != nil
}

// conn returns the open transaction, beginning one if needed.
func (s *Session) conn(ctx context.Context) (*gorm.DB, error) {
	if s.tx == nil {
		tx := s.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return nil, classify(tx.Error)
		}

		s.tx = tx
	}

	return s.tx.WithContext(ctx), nil
}

// FindByKey returns the entry stored under key, or nil if there is none.
func (s *Session) FindByKey(ctx context.Context, key string) (*models.SystemInfo, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var entry models.SystemInfo

	result := db.Where(clause.Eq{Column: keyColumn, Value: key}).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil //nolint:nilnil // absent entry is not an error
		}

		return nil, classify(result.Error)
	}

	return &entry, nil
}

// FindAll returns all entries ordered by key.
func (s *Session) FindAll(ctx context.Context) ([]models.SystemInfo, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var entries []models.SystemInfo

	result := db.Order(clause.OrderByColumn{Column: keyColumn}).Find(&entries)
	if result.Error != nil {
		return nil, classify(result.Error)
	}

	return entries, nil
}

// Insert stages a new entry. A concurrent writer that created the same key first
// is overwritten instead of failing on the unique index.
func (s *Session) Insert(ctx context.Context, entry *models.SystemInfo) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{keyColumn},
		DoUpdates: clause.AssignmentColumns([]string{"value", "state"}),
	}).Create(entry)

	return classify(result.Error)
}

// Update stages the changed entry.
func (s *Session) Update(ctx context.Context, entry *models.SystemInfo) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	return classify(db.Save(entry).Error)
}

// Remove stages the physical removal of entry.
func (s *Session) Remove(ctx context.Context, entry *models.SystemInfo) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	return classify(db.Delete(entry).Error)
}

// Commit applies all staged changes. Committing without an open transaction is a no-op.
func (s *Session) Commit() error {
	if s.tx == nil {
		return nil
	}

	tx := s.tx
	s.tx = nil

	return classify(tx.Commit().Error)
}

// Rollback discards the current transaction. Rolling back without an open
// transaction, or one the driver already finished, is a no-op.
func (s *Session) Rollback() error {
	if s.tx == nil {
		return nil
	}

	tx := s.tx
	s.tx = nil

	err := tx.Rollback().Error
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}

	return classify(err)
}

// Close releases the session, rolling back anything not committed.
func (s *Session) Close() error {
	return s.Rollback()
}
