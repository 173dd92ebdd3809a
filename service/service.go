package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"carrental/pkg/logger"
	"carrental/pkg/rental"
	"carrental/storage"
)

// ErrMutationInFlight is returned when a second mutation targets an entity
// whose previous mutation has not been confirmed yet.
var ErrMutationInFlight = errors.New("another change to this item is still in progress")

type IServiceManager interface {
	Catalog() CatalogService
	Reservation() ReservationService
	Review() ReviewService
	Favorite() FavoriteService
}

type Options struct {
	// BackendTimeout bounds each backend round-trip; zero means no extra deadline.
	BackendTimeout time.Duration
	Now            func() time.Time
}

type service struct {
	catalogService     CatalogService
	reservationService ReservationService
	reviewService      ReviewService
	favoriteService    FavoriteService
}

func New(stg storage.IStorage, log logger.ILogger, opts Options) IServiceManager {
	b := newBase(log, opts)
	return &service{
		catalogService:     NewCatalogService(stg, b),
		reservationService: NewReservationService(stg, b),
		reviewService:      NewReviewService(stg, b),
		favoriteService:    NewFavoriteService(stg, b),
	}
}

func (s *service) Catalog() CatalogService {
	return s.catalogService
}

func (s *service) Reservation() ReservationService {
	return s.reservationService
}

func (s *service) Review() ReviewService {
	return s.reviewService
}

func (s *service) Favorite() FavoriteService {
	return s.favoriteService
}

// base carries what every service shares: logging, the clock, the backend
// deadline and the per-entity in-flight guard.
type base struct {
	log     logger.ILogger
	timeout time.Duration
	now     func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func newBase(log logger.ILogger, opts Options) *base {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &base{
		log:      log,
		timeout:  opts.BackendTimeout,
		now:      now,
		inflight: make(map[string]struct{}),
	}
}

func (b *base) acquire(key string) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, busy := b.inflight[key]; busy {
		return nil, ErrMutationInFlight
	}
	b.inflight[key] = struct{}{}
	return func() {
		b.mu.Lock()
		delete(b.inflight, key)
		b.mu.Unlock()
	}, nil
}

// remote runs a backend call under the configured deadline. A cancelled or
// expired context counts as failure even if fn itself returned nil.
func (b *base) remote(ctx context.Context, fn func(ctx context.Context) error) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	if err := fn(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

func (b *base) syncError(op string, err error) error {
	b.log.Warning("backend did not confirm change, rolled back", logger.String("op", op), logger.Error(err))
	return &rental.SyncError{Op: op, Err: err}
}
