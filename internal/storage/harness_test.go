package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

const (
	owner    int64 = 1
	carrier  int64 = 2
	stranger int64 = 3
)

type harness struct {
	s        *PostgresStorage
	mem      *memStore
	txm      *fakeTxm
	notifier *recordingNotifier
	cache    *cache.ListingCache
	clock    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newReplica(t, newMemStore(), nil)
}

// newReplica builds a storage over mem with its own cache, the way each API process has one.
func newReplica(t *testing.T, mem *memStore, bus cache.Bus) *harness {
	t.Helper()
	h := &harness{
		mem:      mem,
		txm:      &fakeTxm{},
		notifier: &recordingNotifier{},
		clock:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	h.cache = cache.NewListingCache(&fakeListings{h.mem}, bus, time.Minute, zap.NewNop())
	h.s = NewPostgresStorage(h.txm, h.mem.repositories(), h.notifier, h.cache, "booking_events", zap.NewNop())
	h.s.now = func() time.Time { return h.clock }

	h.mem.users[owner] = "owner"
	h.mem.users[carrier] = "carrier"
	h.mem.users[stranger] = "stranger"
	h.mem.registered[owner] = &repository.RegisteredCompany{ID: 1, Country: "UA", Code: "UA-123", RegisteredBy: ptr(owner)}
	return h
}

func (h *harness) advance(d time.Duration) {
	h.clock = h.clock.Add(d)
}

func ptr[T any](v T) *T {
	return &v
}

func cargoInput() ListingInput {
	return ListingInput{
		Kind:            repository.KindCargo,
		LoadingCity:     "Kyiv",
		UnloadingCity:   "Lviv",
		FreightType:     "pallets",
		DateFrom:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Weight:          ptr(12.5),
		Price:           ptr(1500.0),
		ShowOnMain:      true,
		ShowInAvailable: true,
	}
}

func (h *harness) mustCreateListing(t *testing.T, ownerID int64, in ListingInput) *Listing {
	t.Helper()
	listing, err := h.s.CreateListing(context.Background(), ownerID, in)
	require.NoError(t, err)
	return listing
}

func (h *harness) mustBook(t *testing.T, senderID int64, listing *Listing) *Booking {
	t.Helper()
	ref := ListingRef{CargoID: &listing.ID}
	if listing.Kind == repository.KindTruck {
		ref = ListingRef{TruckID: &listing.ID}
	}
	booking, err := h.s.CreateBooking(context.Background(), senderID, ref, ptr("hello"))
	require.NoError(t, err)
	return booking
}

func (h *harness) mustTransition(t *testing.T, actorID, bookingID int64, to repository.BookingStatus) *Booking {
	t.Helper()
	booking, err := h.s.TransitionBooking(context.Background(), actorID, bookingID, to)
	require.NoError(t, err)
	return booking
}

func (h *harness) archiveOf(listingID int64) *repository.ArchiveRecord {
	return h.mem.archiveByListing(listingID)
}

// peerBus hands announcements straight to another replica's cache.
type peerBus struct {
	peer *cache.ListingCache
}

func (b *peerBus) Announce(_ context.Context, orderNumber string) error {
	b.peer.Evict(orderNumber)
	return nil
}
