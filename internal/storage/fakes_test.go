package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jackc/pgconn"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/ordernum"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

var errUnexpectedQuery = errors.New("unexpected direct query in fake transaction")

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *fakeTx) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, errUnexpectedQuery
}

func (t *fakeTx) Get(context.Context, interface{}, string, ...interface{}) error {
	return errUnexpectedQuery
}

func (t *fakeTx) Select(context.Context, interface{}, string, ...interface{}) error {
	return errUnexpectedQuery
}

type fakeTxm struct {
	txs []*fakeTx
}

func (m *fakeTxm) BeginTx(context.Context) (db.Tx, error) {
	tx := &fakeTx{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// memStore emulates the tables and foreign keys the storage layer relies on.
type memStore struct {
	mu         sync.Mutex
	seq        int64
	users      map[int64]string
	listings   map[int64]*repository.Listing
	archive    map[int64]*repository.ArchiveRecord
	bookings   map[int64]*repository.BookingRequest
	reviews    []*repository.Review
	registered map[int64]*repository.RegisteredCompany
	teams      map[int64]*repository.TeamCompany
	members    map[int64]*repository.TeamMember
	outbox     []*repository.OutboxTask
}

func newMemStore() *memStore {
	return &memStore{
		seq:        100,
		users:      make(map[int64]string),
		listings:   make(map[int64]*repository.Listing),
		archive:    make(map[int64]*repository.ArchiveRecord),
		bookings:   make(map[int64]*repository.BookingRequest),
		registered: make(map[int64]*repository.RegisteredCompany),
		teams:      make(map[int64]*repository.TeamCompany),
		members:    make(map[int64]*repository.TeamMember),
	}
}

func (m *memStore) nextID() int64 {
	m.seq++
	return m.seq
}

func (m *memStore) archiveByListing(listingID int64) *repository.ArchiveRecord {
	for _, rec := range m.archive {
		if rec.OriginalID != nil && *rec.OriginalID == listingID {
			return rec
		}
	}
	return nil
}

func (m *memStore) repositories() Repositories {
	return Repositories{
		Listings:  &fakeListings{m},
		Archive:   &fakeArchive{m},
		Bookings:  &fakeBookings{m},
		Reviews:   &fakeReviews{m},
		Companies: &fakeCompanies{m},
		Outbox:    &fakeOutbox{m},
	}
}

type fakeListings struct{ m *memStore }

func (f *fakeListings) CreateTx(_ context.Context, _ db.Tx, l *repository.Listing) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, existing := range f.m.listings {
		if existing.OrderNumber == l.OrderNumber {
			return &pgconn.PgError{Code: "23505", ConstraintName: "listings_order_number_key"}
		}
	}
	l.ID = f.m.nextID()
	cp := *l
	f.m.listings[l.ID] = &cp
	return nil
}

func (f *fakeListings) get(id int64) (*repository.Listing, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	l, ok := f.m.listings[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListings) GetByID(_ context.Context, id int64) (*repository.Listing, error) {
	return f.get(id)
}

func (f *fakeListings) GetByIDTx(_ context.Context, _ db.Tx, id int64) (*repository.Listing, error) {
	return f.get(id)
}

func (f *fakeListings) GetByOrderNumber(_ context.Context, orderNumber string) (*repository.Listing, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, l := range f.m.listings {
		if l.OrderNumber == orderNumber {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrObjectNotFound
}

func (f *fakeListings) UpdateTx(_ context.Context, _ db.Tx, l *repository.Listing) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	cp := *l
	f.m.listings[l.ID] = &cp
	return nil
}

func (f *fakeListings) DeleteTx(_ context.Context, _ db.Tx, id int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.listings[id]; !ok {
		return repository.ErrObjectNotFound
	}
	delete(f.m.listings, id)
	for bid, b := range f.m.bookings {
		if b.ListingID() == id {
			delete(f.m.bookings, bid)
		}
	}
	if rec := f.m.archiveByListing(id); rec != nil {
		rec.OriginalID = nil
	}
	return nil
}

func (f *fakeListings) LockOrderPrefixTx(context.Context, db.Tx, string) error {
	return nil
}

func (f *fakeListings) MaxSequenceTx(_ context.Context, _ db.Tx, prefix string) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	max := 0
	for _, l := range f.m.listings {
		if n, ok := ordernum.Sequence(prefix, l.OrderNumber); ok && n > max {
			max = n
		}
	}
	return max, nil
}

func (f *fakeListings) List(_ context.Context, filter repository.ListingFilter) ([]*repository.Listing, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*repository.Listing
	for _, l := range f.m.listings {
		if l.Kind != filter.Kind {
			continue
		}
		if filter.OwnerID != nil && l.UserID != *filter.OwnerID {
			continue
		}
		if filter.Feed != "" && l.Hidden {
			continue
		}
		if filter.Feed == repository.FeedMain && !l.ShowOnMain {
			continue
		}
		if filter.Feed == repository.FeedAvailable && !l.ShowInAvailable {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeListings) GetAll(ctx context.Context) ([]*repository.Listing, error) {
	return nil, nil
}

type fakeArchive struct{ m *memStore }

func (f *fakeArchive) CreateTx(_ context.Context, _ db.Tx, rec *repository.ArchiveRecord) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	rec.ID = f.m.nextID()
	cp := *rec
	f.m.archive[rec.ID] = &cp
	return nil
}

func (f *fakeArchive) SyncListingTx(_ context.Context, _ db.Tx, l *repository.Listing) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	rec := f.m.archiveByListing(l.ID)
	if rec == nil {
		return false, nil
	}
	owner, freightType, dateFrom := l.UserID, l.FreightType, l.DateFrom
	rec.UserID = &owner
	rec.LoadingCity = l.LoadingCity
	rec.UnloadingCity = l.UnloadingCity
	rec.FreightType = &freightType
	rec.DateFrom = &dateFrom
	rec.Price = l.Price
	return true, nil
}

func (f *fakeArchive) SyncBookingTx(_ context.Context, _ db.Tx, listingID int64, b *repository.BookingRequest) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	rec := f.m.archiveByListing(listingID)
	if rec == nil {
		return false, nil
	}
	sender, receiver, status := b.SenderID, b.ReceiverID, b.Status
	rec.SenderID = &sender
	rec.ReceiverID = &receiver
	rec.SentAt = b.SentAt
	rec.AcceptedAt = b.AcceptedAt
	rec.FinishedAt = b.FinishedAt
	rec.FinishedBy = b.FinishedBy
	rec.ArchivedAt = b.ArchivedAt
	rec.Status = &status
	return true, nil
}

func (f *fakeArchive) DetachTx(_ context.Context, _ db.Tx, listingID int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if rec := f.m.archiveByListing(listingID); rec != nil {
		rec.OriginalID = nil
	}
	return nil
}

func (f *fakeArchive) MaxSequenceTx(_ context.Context, _ db.Tx, prefix string) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	max := 0
	for _, rec := range f.m.archive {
		if n, ok := ordernum.Sequence(prefix, rec.OrderNumber); ok && n > max {
			max = n
		}
	}
	return max, nil
}

func (f *fakeArchive) GetByListingID(_ context.Context, listingID int64) (*repository.ArchiveRecord, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	rec := f.m.archiveByListing(listingID)
	if rec == nil {
		return nil, repository.ErrObjectNotFound
	}
	cp := *rec
	return &cp, nil
}

type fakeBookings struct{ m *memStore }

func (f *fakeBookings) CreateTx(_ context.Context, _ db.Tx, b *repository.BookingRequest) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, existing := range f.m.bookings {
		if existing.SenderID == b.SenderID && existing.ListingID() == b.ListingID() &&
			existing.ListingKind() == b.ListingKind() && existing.Status.Active() {
			return &pgconn.PgError{Code: "23505", ConstraintName: "unique_active_cargo_request"}
		}
	}
	b.ID = f.m.nextID()
	cp := *b
	f.m.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookings) get(id int64) (*repository.BookingRequest, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	b, ok := f.m.bookings[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := *b
	cp.SenderUsername = f.m.users[b.SenderID]
	cp.ReceiverUsername = f.m.users[b.ReceiverID]
	return &cp, nil
}

func (f *fakeBookings) GetByID(_ context.Context, id int64) (*repository.BookingRequest, error) {
	return f.get(id)
}

func (f *fakeBookings) GetByIDTx(_ context.Context, _ db.Tx, id int64) (*repository.BookingRequest, error) {
	return f.get(id)
}

func (f *fakeBookings) HasActiveTx(_ context.Context, _ db.Tx, senderID int64, kind repository.ListingKind, listingID int64) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, b := range f.m.bookings {
		if b.SenderID == senderID && b.ListingKind() == kind && b.ListingID() == listingID && b.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookings) UpdateTx(_ context.Context, _ db.Tx, b *repository.BookingRequest) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	cp := *b
	f.m.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookings) DeleteTx(_ context.Context, _ db.Tx, id int64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.bookings[id]; !ok {
		return repository.ErrObjectNotFound
	}
	delete(f.m.bookings, id)
	return nil
}

func (f *fakeBookings) ListByView(_ context.Context, view repository.BookingView, userID int64) ([]*repository.BookingRequest, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*repository.BookingRequest
	for _, b := range f.m.bookings {
		var match bool
		switch view {
		case repository.ViewSent:
			match = b.SenderID == userID
		case repository.ViewReceived:
			match = b.ReceiverID == userID && b.Status == repository.StatusWaiting
		case repository.ViewActive:
			match = b.Status == repository.StatusAccepted && (b.SenderID == userID || b.ReceiverID == userID)
		case repository.ViewArchived:
			match = b.Status.Terminal() &&
				((b.SenderID == userID && !b.SenderDeleted) || (b.ReceiverID == userID && !b.ReceiverDeleted))
		}
		if match {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeReviews struct{ m *memStore }

func sameBooking(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func (f *fakeReviews) ExistsTx(_ context.Context, _ db.Tx, authorID, targetUserID int64, bookingID *int64) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, r := range f.m.reviews {
		if r.AuthorID == authorID && r.TargetUserID == targetUserID && sameBooking(r.BookingID, bookingID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) CreateTx(_ context.Context, _ db.Tx, r *repository.Review) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	r.ID = f.m.nextID()
	cp := *r
	f.m.reviews = append(f.m.reviews, &cp)
	return nil
}

func (f *fakeReviews) List(_ context.Context, filter repository.ReviewFilter, viewerID int64) ([]*repository.Review, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*repository.Review
	for _, r := range f.m.reviews {
		if !r.IsVisible && r.AuthorID != viewerID && r.TargetUserID != viewerID {
			continue
		}
		if filter.TargetUserID != nil && r.TargetUserID != *filter.TargetUserID {
			continue
		}
		if filter.AuthorID != nil && r.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.BookingID != nil && !sameBooking(r.BookingID, filter.BookingID) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeReviews) RatingSummary(_ context.Context, userID int64) (repository.RatingSummary, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var sum, count int
	for _, r := range f.m.reviews {
		if r.TargetUserID == userID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return repository.RatingSummary{}, nil
	}
	return repository.RatingSummary{Average: float64(sum) / float64(count), Count: count}, nil
}

type fakeCompanies struct{ m *memStore }

func (f *fakeCompanies) GetRegisteredByOwner(_ context.Context, userID int64) (*repository.RegisteredCompany, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	c, ok := f.m.registered[userID]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanies) GetTeamByOwner(_ context.Context, userID int64) (*repository.TeamCompany, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	c, ok := f.m.teams[userID]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanies) GetMembership(_ context.Context, userID int64) (*repository.TeamMember, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	member, ok := f.m.members[userID]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	cp := *member
	return &cp, nil
}

func (f *fakeCompanies) GetMember(_ context.Context, companyID, userID int64) (*repository.TeamMember, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	member, ok := f.m.members[userID]
	if !ok || member.CompanyID != companyID {
		return nil, repository.ErrObjectNotFound
	}
	cp := *member
	return &cp, nil
}

func (f *fakeCompanies) ListMembers(_ context.Context, companyID int64) ([]*repository.TeamMember, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*repository.TeamMember
	for _, member := range f.m.members {
		if member.CompanyID == companyID {
			cp := *member
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type fakeOutbox struct{ m *memStore }

func (f *fakeOutbox) CreateTx(_ context.Context, _ db.Tx, task *repository.OutboxTask) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	cp := *task
	f.m.outbox = append(f.m.outbox, &cp)
	return nil
}

type sentNotification struct {
	userID  int64
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, userID int64, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{userID: userID, message: message})
	return n.err
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}
