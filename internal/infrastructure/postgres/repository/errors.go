package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translateError maps retryable driver failures onto domain.ErrStoreConflict.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected {
			return fmt.Errorf("%w: %s", domain.ErrStoreConflict, pgErr.Message)
		}
		return err
	}

	// sqlite reports lock contention as SQLITE_BUSY
	if strings.Contains(err.Error(), "database is locked") {
		return fmt.Errorf("%w: %s", domain.ErrStoreConflict, err.Error())
	}
	return err
}
