// Package systeminfo provides the runtime-editable key/value settings store.
//
// Every operation takes the Session it runs in. The store never opens or caches
// a connection of its own, the caller decides the transaction scope.
package systeminfo

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/models"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/session"
)

var (
	// ErrKeyEmpty is returned when an operation is called with an empty key.
	ErrKeyEmpty = errors.New("system info key cannot be empty")
	// ErrKeyTooLong is returned when a key has more than models.SystemInfoKeyMaxLen characters.
	ErrKeyTooLong = errors.New("system info key is too long")
	// ErrSessionNil is returned when the session is nil.
	ErrSessionNil = errors.New("session is nil")
)

// Session is the persistence collaborator the store runs on.
// FindByKey returns nil and no error when the key is absent.
// Insert, Update and Remove only stage changes, Commit makes them durable.
type Session interface {
	FindByKey(ctx context.Context, key string) (*models.SystemInfo, error)
	FindAll(ctx context.Context) ([]models.SystemInfo, error)
	Insert(ctx context.Context, entry *models.SystemInfo) error
	Update(ctx context.Context, entry *models.SystemInfo) error
	Remove(ctx context.Context, entry *models.SystemInfo) error
	Commit() error
	Rollback() error
}

// Get returns the value stored under key, or def if there is none.
// The read transaction is always committed. A missing table is treated as an
// absent key. If the session was left unusable by an earlier failure the lookup
// is retried exactly once after a rollback, a second failure is returned.
func Get(ctx context.Context, sess Session, key, def string) (string, error) {
	value, found, err := Lookup(ctx, sess, key)
	if err != nil {
		return "", err
	}

	if !found {
		return def, nil
	}

	return value, nil
}

// Lookup is Get without a default. found is false if no entry exists for key.
func Lookup(ctx context.Context, sess Session, key string) (string, bool, error) {
	if sess == nil {
		return "", false, ErrSessionNil
	}

	entry, err := lookupOnce(ctx, sess, key)
	if err != nil {
		if !errors.Is(err, session.ErrTransactionInvalid) {
			return "", false, err
		}

		log.Error().Err(err).Str("key", key).Msg("error retrieving system info")

		if err = sess.Rollback(); err != nil {
			return "", false, err
		}

		recoveries.WithLabelValues(reasonTransactionInvalid).Inc()
		log.Info().Str("key", key).Msg("retrying system info lookup")

		if entry, err = lookupOnce(ctx, sess, key); err != nil {
			return "", false, err
		}
	}

	if entry == nil {
		return "", false, nil
	}

	return entry.StringValue(), true, nil
}

// lookupOnce reads key and commits. A missing table rolls back and reports no entry.
func lookupOnce(ctx context.Context, sess Session, key string) (*models.SystemInfo, error) {
	entry, err := sess.FindByKey(ctx, key)
	if err == nil {
		err = sess.Commit()
	}

	if err != nil {
		if errors.Is(err, session.ErrRelationMissing) {
			recoveries.WithLabelValues(reasonRelationMissing).Inc()
			log.Debug().Err(err).Str("key", key).Msg("system info table not provisioned")

			return nil, sess.Rollback()
		}

		return nil, err
	}

	return entry, nil
}

// Set stores value under key. It returns true if storage was written and false
// if the stored value already equals value, in which case nothing is written.
// The boolean reports a change, failures are reported through the error only.
func Set(ctx context.Context, sess Session, key, value string) (bool, error) {
	if err := checkWrite(sess, key); err != nil {
		return false, err
	}

	entry, err := sess.FindByKey(ctx, key)
	if err != nil {
		return false, err
	}

	if entry != nil && entry.Value != nil && *entry.Value == value {
		// release the read, nothing to write
		return false, sess.Rollback()
	}

	op := opUpdate

	if entry == nil {
		op = opInsert
		entry = models.NewSystemInfo(key, value)
		err = sess.Insert(ctx, entry)
	} else {
		entry.Value = &value
		err = sess.Update(ctx, entry)
	}

	if err != nil {
		return false, err
	}

	if err = sess.Commit(); err != nil {
		return false, err
	}

	writes.WithLabelValues(op).Inc()
	log.Debug().Str("key", key).Str("op", op).Msg("system info stored")

	return true, nil
}

// Delete removes the entry stored under key. Deleting an absent key is a no-op.
// The second argument is accepted for call compatibility and ignored.
func Delete(ctx context.Context, sess Session, key string, _ any) error {
	if sess == nil {
		return ErrSessionNil
	}

	entry, err := sess.FindByKey(ctx, key)
	if err != nil {
		return err
	}

	if entry == nil {
		return sess.Rollback()
	}

	if err = sess.Remove(ctx, entry); err != nil {
		return err
	}

	if err = sess.Commit(); err != nil {
		return err
	}

	writes.WithLabelValues(opDelete).Inc()
	log.Debug().Str("key", key).Msg("system info deleted")

	return nil
}

// List returns all entries ordered by key.
func List(ctx context.Context, sess Session) ([]models.SystemInfo, error) {
	if sess == nil {
		return nil, ErrSessionNil
	}

	entries, err := sess.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return entries, sess.Commit()
}

// checkWrite rejects keys the key column cannot hold. Reads and deletes take any
// key, a key that cannot be stored is simply never found.
func checkWrite(sess Session, key string) error {
	switch {
	case sess == nil:
		return ErrSessionNil
	case key == "":
		return ErrKeyEmpty
	case utf8.RuneCountInString(key) > models.SystemInfoKeyMaxLen:
		return ErrKeyTooLong
	}

	return nil
}
