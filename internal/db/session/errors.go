package session

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrRelationMissing is returned when the system_info table has not been provisioned yet.
	ErrRelationMissing = errors.New("relation does not exist")

	// ErrTransactionInvalid is returned when the transaction can no longer be used
	// because a prior failure was not rolled back.
	ErrTransactionInvalid = errors.New("transaction is no longer usable")

	// ErrDuplicateKey is returned when a uniqueness constraint was violated.
	ErrDuplicateKey = errors.New("duplicate key")
)

const (
	pgUndefinedTable         = "42P01"
	pgInFailedSQLTransaction = "25P02"
	pgUniqueViolation        = "23505"
	mysqlNoSuchTable         = 1146
	mysqlDuplicateEntry      = 1062
	sqliteNoSuchTable        = "no such table"
	sqliteUniqueConstraint   = "UNIQUE constraint failed"
	sqliteCannotCommitNoTx   = "cannot commit - no transaction is active"
	sqliteCannotRollbackNoTx = "cannot rollback - no transaction is active"
)

// classify maps a driver error onto one of the sentinel errors. The driver error
// stays in the chain, so errors.As on driver types keeps working.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isRelationMissing(err):
		return fmt.Errorf("%w: %w", ErrRelationMissing, err)
	case isTransactionInvalid(err):
		return fmt.Errorf("%w: %w", ErrTransactionInvalid, err)
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	default:
		return err
	}
}

func isRelationMissing(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoSuchTable
	}

	return strings.Contains(err.Error(), sqliteNoSuchTable)
}

func isTransactionInvalid(err error) bool {
	if errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, gorm.ErrInvalidTransaction) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, pgx.ErrTxCommitRollback) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgInFailedSQLTransaction
	}

	msg := err.Error()

	return strings.Contains(msg, sqliteCannotCommitNoTx) || strings.Contains(msg, sqliteCannotRollbackNoTx)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	return strings.Contains(err.Error(), sqliteUniqueConstraint)
}
