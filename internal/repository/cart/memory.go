package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	cartengine "bottlecraft/internal/cart"
	"bottlecraft/internal/domain"
	"bottlecraft/internal/logging"
)

type entry struct {
	mu        sync.Mutex
	cart      *cartengine.Cart
	currency  string
	createdAt time.Time
	updatedAt time.Time
	// removed is set under mu once the entry leaves the map; holders of a
	// stale pointer must treat the cart as gone.
	removed bool
}

type memoryRepo struct {
	mu      sync.RWMutex
	carts   map[string]*entry
	idleTTL time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewMemory keeps carts in process memory. Carts untouched for idleTTL are
// evicted on the next Create; zero disables eviction.
func NewMemory(logger *zap.Logger, idleTTL time.Duration) Repository {
	return &memoryRepo{
		carts:   map[string]*entry{},
		idleTTL: idleTTL,
		now:     time.Now,
		logger:  logging.OrNop(logger),
	}
}

func (r *memoryRepo) Create(_ context.Context, in CreateCartInput) (*domain.Cart, error) {
	now := r.now().UTC()
	e := &entry{
		cart:      cartengine.New(),
		currency:  in.Currency,
		createdAt: now,
		updatedAt: now,
	}
	id := uuid.NewString()

	r.mu.Lock()
	r.evictLocked(now)
	r.carts[id] = e
	r.mu.Unlock()

	r.logger.Debug("cart created", zap.String("cart_id", id))
	return snapshot(id, e), nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, domain.ErrNotFound
	}
	return snapshot(id, e), nil
}

// Update runs fn against a working copy so a failed mutation leaves the
// stored cart unchanged.
func (r *memoryRepo) Update(_ context.Context, id string, fn MutateFunc) (*domain.Cart, error) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.update(id, e, fn)
}

func (r *memoryRepo) update(id string, e *entry, fn MutateFunc) (*domain.Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, domain.ErrNotFound
	}

	work := cartengine.FromLines(e.cart.Lines())
	if err := fn(work); err != nil {
		return nil, err
	}
	e.cart = work
	e.updatedAt = r.now().UTC()
	return snapshot(id, e), nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.carts[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.mu.Lock()
	e.removed = true
	e.mu.Unlock()
	delete(r.carts, id)
	return nil
}

func (r *memoryRepo) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.carts[id]
	return e, ok
}

func (r *memoryRepo) evictLocked(now time.Time) {
	if r.idleTTL <= 0 {
		return
	}
	for id, e := range r.carts {
		e.mu.Lock()
		idle := now.Sub(e.updatedAt)
		evict := idle > r.idleTTL
		if evict {
			e.removed = true
		}
		e.mu.Unlock()
		if evict {
			delete(r.carts, id)
			r.logger.Debug("cart evicted", zap.String("cart_id", id), zap.Duration("idle", idle))
		}
	}
}

func snapshot(id string, e *entry) *domain.Cart {
	return &domain.Cart{
		ID:        id,
		Currency:  e.currency,
		Lines:     e.cart.Lines(),
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
	}
}
