package catalogsync

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductStatusSyncer interface {
	SyncSoldOut(ctx context.Context) (soldOut []uuid.UUID, restocked []uuid.UUID, err error)
}

// CacheInvalidator drops cached products whose status changed.
type CacheInvalidator interface {
	InvalidateProducts(ctx context.Context, ids ...uuid.UUID) error
}

type SyncService struct {
	products ProductStatusSyncer
	cache    CacheInvalidator // может быть nil
	log      *zap.Logger
}

func NewSyncService(products ProductStatusSyncer, cache CacheInvalidator, log *zap.Logger) *SyncService {
	return &SyncService{products: products, cache: cache, log: log}
}

// Reconcile aligns product status with stock: IN_STOCK with nothing left
// becomes SOLD_OUT and SOLD_OUT with stock becomes IN_STOCK again.
func (s *SyncService) Reconcile(ctx context.Context) error {
	soldOut, restocked, err := s.products.SyncSoldOut(ctx)
	if err != nil {
		s.log.Error("failed to reconcile product statuses", zap.Error(err))
		return err
	}
	if len(soldOut) == 0 && len(restocked) == 0 {
		return nil
	}

	s.log.Info("product statuses reconciled",
		zap.Int("sold_out", len(soldOut)),
		zap.Int("restocked", len(restocked)),
	)

	if s.cache != nil {
		changed := append(append([]uuid.UUID{}, soldOut...), restocked...)
		if err := s.cache.InvalidateProducts(ctx, changed...); err != nil {
			s.log.Warn("failed to invalidate reconciled products", zap.Error(err))
		}
	}
	return nil
}
