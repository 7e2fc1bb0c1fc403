package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"github.com/LavaJover/shvark-credit-service/internal/infrastructure/postgres/testdb"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStore_InTxRollsBack(t *testing.T) {
	store := NewGormStore(testdb.New(t), 5, 3, nil)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx domain.Store) error {
		if err := tx.Credits().Debit(ctx, "user-1", 2); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	balance, err := store.Credits().GetOrInit(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance.Credits)
}

func TestGormStore_InTxRetriesConflicts(t *testing.T) {
	store := NewGormStore(testdb.New(t), 5, 3, nil)

	attempts := 0
	err := store.InTx(context.Background(), func(tx domain.Store) error {
		attempts++
		return &pgconn.PgError{Code: pgSerializationFailure, Message: "could not serialize access"}
	})

	assert.ErrorIs(t, err, domain.ErrStoreConflict)
	assert.Equal(t, 3, attempts)
}

func TestGormStore_InTxNested(t *testing.T) {
	store := NewGormStore(testdb.New(t), 5, 3, nil)
	ctx := context.Background()

	err := store.InTx(ctx, func(tx domain.Store) error {
		return tx.InTx(ctx, func(inner domain.Store) error {
			return inner.Credits().Credit(ctx, "user-1", 1)
		})
	})
	require.NoError(t, err)

	balance, err := store.Credits().GetOrInit(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance.Credits)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: pgDeadlockDetected})), domain.ErrStoreConflict)
	assert.NotErrorIs(t, translateError(&pgconn.PgError{Code: "23505"}), domain.ErrStoreConflict)
	assert.ErrorIs(t, translateError(errors.New("database is locked")), domain.ErrStoreConflict)
}
