package seeder

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderdesk/internal/entity"
	repo "github.com/Additional-Code/orderdesk/internal/repository/order"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder loads sample orders for local/dev setups. It talks to the store
// contract, so it works against every configured driver.
type Seeder struct {
	store  repo.Store
	logger *zap.Logger
}

// New constructs a Seeder backed by the configured order store.
func New(store repo.Store, logger *zap.Logger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

// Orders seeds sample orders when the store is empty.
func (s *Seeder) Orders(ctx context.Context) error {
	existing, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		if s.logger != nil {
			s.logger.Info("store already has orders; skipping seed", zap.Int("count", len(existing)))
		}
		return nil
	}

	now := time.Now().UTC().Unix()
	samples := []entity.Order{
		{
			Name:      "林小姐",
			Phone:     "0912345678",
			StoreID:   "西門門市",
			BankCode:  "81234",
			Note:      "平日下午取貨",
			Calendar:  entity.ProductLine{Quantity: 2, Signed: true},
			Polaroid:  entity.ProductLine{Quantity: 1},
			CreatedAt: now - 3600,
			Total:     1480,
		},
		{
			Name:      "陳先生",
			Phone:     "0987654321",
			StoreID:   "板橋門市",
			BankCode:  "55678",
			Calendar:  entity.ProductLine{Quantity: 1},
			Polaroid:  entity.ProductLine{Quantity: 3, Signed: true},
			CreatedAt: now - 7200,
			Total:     2150,
		},
		{
			Name:      "Yuki",
			Phone:     "0955555555",
			BankCode:  "10005",
			Calendar:  entity.ProductLine{Quantity: 1, Signed: true},
			CreatedAt: now,
			Total:     680,
		},
	}

	for i := range samples {
		if err := s.store.Insert(ctx, &samples[i]); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	}
	return nil
}
