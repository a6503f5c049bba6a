package l1_service

import (
	"context"
	"fmt"
	"sync"

	"stockscreener/internal/domain"
	"stockscreener/internal/repository"

	"github.com/shopspring/decimal"
)

// SnapshotService hands out immutable factor snapshots by lookback
// offset. Snapshots are cached in memory after first load; the cache is
// safe for concurrent callers.
type SnapshotService interface {
	Get(ctx context.Context, yearsAgo int) ([]domain.StockSnapshot, error)
	PriceMap(ctx context.Context, yearsAgo int) (map[string]decimal.Decimal, error)
}

type snapshotServiceHandler struct {
	SnapshotRepository repository.SnapshotRepository

	cache     map[int][]domain.StockSnapshot
	cacheLock *sync.RWMutex
}

func NewSnapshotService(snapshotRepository repository.SnapshotRepository) SnapshotService {
	return &snapshotServiceHandler{
		SnapshotRepository: snapshotRepository,
		cache:              map[int][]domain.StockSnapshot{},
		cacheLock:          &sync.RWMutex{},
	}
}

func (h *snapshotServiceHandler) Get(ctx context.Context, yearsAgo int) ([]domain.StockSnapshot, error) {
	if yearsAgo < 0 {
		return nil, domain.ConfigurationError{Err: fmt.Errorf("lookback offset must be >= 0, got %d", yearsAgo)}
	}

	h.cacheLock.RLock()
	cached, ok := h.cache[yearsAgo]
	h.cacheLock.RUnlock()
	if ok {
		return cached, nil
	}

	snapshot, err := h.SnapshotRepository.GetSnapshot(yearsAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for offset %d: %w", yearsAgo, err)
	}
	if len(snapshot) == 0 {
		return nil, domain.DataUnavailableError{Err: fmt.Errorf("no snapshot recorded for offset %d", yearsAgo)}
	}

	h.cacheLock.Lock()
	h.cache[yearsAgo] = snapshot
	h.cacheLock.Unlock()

	return snapshot, nil
}

// PriceMap returns the per-symbol prices for one offset, skipping
// symbols whose snapshot carries no price.
func (h *snapshotServiceHandler) PriceMap(ctx context.Context, yearsAgo int) (map[string]decimal.Decimal, error) {
	snapshot, err := h.Get(ctx, yearsAgo)
	if err != nil {
		return nil, err
	}

	priceMap := map[string]decimal.Decimal{}
	for _, stock := range snapshot {
		if stock.Price != nil {
			priceMap[stock.Symbol] = decimal.NewFromFloat(*stock.Price)
		}
	}

	return priceMap, nil
}
