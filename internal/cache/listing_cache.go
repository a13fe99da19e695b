package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

const announceTimeout = 2 * time.Second

type ListingRepository interface {
	GetAll(ctx context.Context) ([]*repository.Listing, error)
}

// Bus carries order numbers of changed or deleted listings to the other API replicas.
type Bus interface {
	Announce(ctx context.Context, orderNumber string) error
}

type entry struct {
	listing *repository.Listing
	expires time.Time
}

// ListingCache keeps live listings keyed by order number. Entries expire after ttl so a missed
// announcement cannot keep a stale listing around; a zero ttl keeps them until evicted.
type ListingCache struct {
	mu     sync.RWMutex
	cache  map[string]entry
	repo   ListingRepository
	bus    Bus
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewListingCache builds a cache. bus may be nil when a single replica serves the API.
func NewListingCache(repo ListingRepository, bus Bus, ttl time.Duration, logger *zap.Logger) *ListingCache {
	return &ListingCache{
		cache:  make(map[string]entry),
		repo:   repo,
		bus:    bus,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (c *ListingCache) LoadInitialData(ctx context.Context) error {
	listings, err := c.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, listing := range listings {
		c.put(listing)
	}
	metrics.ListingCacheItems.Set(float64(len(c.cache)))
	c.logger.Info("Loaded listings into cache", zap.Int("count", len(c.cache)))
	return nil
}

func (c *ListingCache) Get(orderNumber string) (*repository.Listing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, found := c.cache[orderNumber]
	if !found || (c.ttl > 0 && c.now().After(e.expires)) {
		return nil, false
	}
	listingCopy := *e.listing
	return &listingCopy, true
}

// Set stores a listing read from the database on this replica only.
func (c *ListingCache) Set(listing *repository.Listing) {
	c.mu.Lock()
	c.put(listing)
	metrics.ListingCacheItems.Set(float64(len(c.cache)))
	c.mu.Unlock()
	c.logger.Debug("Cache: set listing", zap.String("order_number", listing.OrderNumber))
}

// Refresh stores a changed listing and tells the other replicas to drop their copy.
func (c *ListingCache) Refresh(listing *repository.Listing) {
	c.Set(listing)
	c.announce(listing.OrderNumber)
}

// Delete drops a removed listing here and on the other replicas.
func (c *ListingCache) Delete(orderNumber string) {
	c.Evict(orderNumber)
	c.announce(orderNumber)
}

// Evict drops a listing on this replica only.
func (c *ListingCache) Evict(orderNumber string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[orderNumber]; found {
		delete(c.cache, orderNumber)
		metrics.ListingCacheItems.Set(float64(len(c.cache)))
		c.logger.Debug("Cache: evicted listing", zap.String("order_number", orderNumber))
	}
}

func (c *ListingCache) put(listing *repository.Listing) {
	listingCopy := *listing
	c.cache[listing.OrderNumber] = entry{listing: &listingCopy, expires: c.now().Add(c.ttl)}
}

func (c *ListingCache) announce(orderNumber string) {
	if c.bus == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), announceTimeout)
	defer cancel()
	if err := c.bus.Announce(ctx, orderNumber); err != nil {
		c.logger.Warn("Failed to announce listing change", zap.String("order_number", orderNumber), zap.Error(err))
	}
}
