package repository

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-credit-service/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GormStore struct {
	db           *gorm.DB
	initialGrant int64
	retries      int
	inTx         bool
	logger       *zap.Logger
}

func NewGormStore(db *gorm.DB, initialGrant int64, retries int, logger *zap.Logger) *GormStore {
	if retries <= 0 {
		retries = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormStore{db: db, initialGrant: initialGrant, retries: retries, logger: logger}
}

func (s *GormStore) Credits() domain.CreditRepository {
	return NewDefaultCreditRepository(s.db, s.initialGrant)
}

func (s *GormStore) History() domain.HistoryRepository {
	return NewDefaultHistoryRepository(s.db)
}

func (s *GormStore) Payments() domain.PaymentOrderRepository {
	return NewDefaultPaymentOrderRepository(s.db)
}

// InTx runs fn in one transaction and retries it on ErrStoreConflict. Calls
// made on an already transactional store join the outer transaction.
func (s *GormStore) InTx(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	var err error
	for attempt := 1; attempt <= s.retries; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&GormStore{
				db:           tx,
				initialGrant: s.initialGrant,
				retries:      1,
				inTx:         true,
				logger:       s.logger,
			})
		})
		err = translateError(err)
		if !errors.Is(err, domain.ErrStoreConflict) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		s.logger.Warn("store conflict, retrying transaction",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.retries),
			zap.Error(err),
		)
	}
	return err
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
