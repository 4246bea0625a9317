// Package session implements a request scoped transaction handle over gorm.
//
// A Session begins its transaction lazily on first use and keeps it open until
// Commit, Rollback or Close is called. Driver errors are classified into the
// sentinel errors of this package so callers can recover from the few
// conditions that are worth recovering from without knowing which database
// engine is in use.
package session
