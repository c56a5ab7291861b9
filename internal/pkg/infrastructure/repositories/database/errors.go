package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/diwise/iot-device-catalog/internal/pkg/infrastructure/storage"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/sys/unix"
	"gorm.io/gorm"
)

// classify maps driver errors onto the storage error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrValidation),
		errors.Is(err, storage.ErrStorageUnavailable), errors.Is(err, storage.ErrConstraintViolation):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", storage.ErrNotFound, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %w", storage.ErrStorageUnavailable, err)
	case isConstraintViolation(err):
		return fmt.Errorf("%w: %w", storage.ErrConstraintViolation, err)
	}

	return err
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, unix.ECONNREFUSED) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if pgconn.Timeout(err) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen:
			return true
		}
	}

	return false
}

func isConstraintViolation(err error) bool {
	// SQLSTATE class 23 is integrity constraint violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
