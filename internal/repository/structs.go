package repository

import (
	"errors"
	"time"
)

var (
	ErrObjectNotFound     = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type ListingKind string

const (
	KindCargo ListingKind = "cargo"
	KindTruck ListingKind = "truck"
)

type BookingStatus string

const (
	StatusWaiting   BookingStatus = "Waiting"
	StatusAccepted  BookingStatus = "Accepted"
	StatusRejected  BookingStatus = "Rejected"
	StatusFinished  BookingStatus = "Finished"
	StatusCancelled BookingStatus = "Cancelled"
)

func (s BookingStatus) Active() bool {
	return s == StatusWaiting || s == StatusAccepted
}

func (s BookingStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
}

type Listing struct {
	ID              int64       `db:"id"`
	Kind            ListingKind `db:"kind"`
	UserID          int64       `db:"user_id"`
	OrderNumber     string      `db:"order_number"`
	LoadingCity     string      `db:"loading_city"`
	UnloadingCity   string      `db:"unloading_city"`
	FreightType     string      `db:"freight_type"`
	DateFrom        time.Time   `db:"date_from"`
	DateTo          *time.Time  `db:"date_to"`
	Weight          *float64    `db:"weight"`
	Volume          *float64    `db:"volume"`
	Price           *float64    `db:"price"`
	PriceCurrency   *string     `db:"price_currency"`
	Phone           *string     `db:"phone"`
	Email           *string     `db:"email"`
	ExtraInfo       *string     `db:"extra_info"`
	Hidden          bool        `db:"hidden"`
	ShowOnMain      bool        `db:"show_on_main"`
	ShowInAvailable bool        `db:"show_in_available"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

type ListingFeed string

const (
	FeedMain      ListingFeed = "main"
	FeedAvailable ListingFeed = "available"
	FeedSearch    ListingFeed = "search"
)

type ListingFilter struct {
	Kind ListingKind
	// OwnerID restricts the result to one owner's listings; public feeds leave it nil.
	OwnerID *int64
	Feed    ListingFeed
	Sort    string
}

type ArchiveRecord struct {
	ID            int64          `db:"id"`
	Kind          ListingKind    `db:"kind"`
	OriginalID    *int64         `db:"original_id"`
	UserID        *int64         `db:"user_id"`
	OrderNumber   string         `db:"order_number"`
	LoadingCity   string         `db:"loading_city"`
	UnloadingCity string         `db:"unloading_city"`
	FreightType   *string        `db:"freight_type"`
	DateFrom      *time.Time     `db:"date_from"`
	Price         *float64       `db:"price"`
	SenderID      *int64         `db:"sender_id"`
	ReceiverID    *int64         `db:"receiver_id"`
	SentAt        *time.Time     `db:"sent_at"`
	AcceptedAt    *time.Time     `db:"accepted_at"`
	FinishedAt    *time.Time     `db:"finished_at"`
	FinishedBy    *int64         `db:"finished_by"`
	ArchivedAt    *time.Time     `db:"archived_at"`
	Status        *BookingStatus `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
}

type BookingRequest struct {
	ID              int64         `db:"id"`
	SenderID        int64         `db:"sender_id"`
	ReceiverID      int64         `db:"receiver_id"`
	CargoID         *int64        `db:"cargo_id"`
	TruckID         *int64        `db:"truck_id"`
	Status          BookingStatus `db:"status"`
	Message         *string       `db:"message"`
	SenderDeleted   bool          `db:"sender_deleted"`
	ReceiverDeleted bool          `db:"receiver_deleted"`
	SentAt          *time.Time    `db:"sent_at"`
	AcceptedAt      *time.Time    `db:"accepted_at"`
	FinishedAt      *time.Time    `db:"finished_at"`
	FinishedBy      *int64        `db:"finished_by"`
	ArchivedAt      *time.Time    `db:"archived_at"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`

	SenderUsername   string `db:"sender_username"`
	ReceiverUsername string `db:"receiver_username"`
}

// ListingID returns the referenced cargo or truck id.
func (b *BookingRequest) ListingID() int64 {
	if b.CargoID != nil {
		return *b.CargoID
	}
	if b.TruckID != nil {
		return *b.TruckID
	}
	return 0
}

func (b *BookingRequest) ListingKind() ListingKind {
	if b.TruckID != nil {
		return KindTruck
	}
	return KindCargo
}

type BookingView string

const (
	ViewSent     BookingView = "sent"
	ViewReceived BookingView = "received"
	ViewActive   BookingView = "active"
	ViewArchived BookingView = "archived"
)

type Notification struct {
	ID         int64     `db:"id"`
	ReceiverID int64     `db:"receiver_id"`
	Message    string    `db:"message"`
	IsRead     bool      `db:"is_read"`
	CreatedAt  time.Time `db:"created_at"`
}

type Review struct {
	ID            int64        `db:"id"`
	AuthorID      int64        `db:"author_id"`
	TargetUserID  int64        `db:"target_user_id"`
	BookingID     *int64       `db:"booking_id"`
	ListingKind   *ListingKind `db:"listing_kind"`
	OrderNumber   *string      `db:"order_number"`
	LoadingCity   *string      `db:"loading_city"`
	UnloadingCity *string      `db:"unloading_city"`
	FreightType   *string      `db:"freight_type"`
	Price         *float64     `db:"price"`
	Rating        int          `db:"rating"`
	Comment       *string      `db:"comment"`
	IsVisible     bool         `db:"is_visible"`
	CreatedAt     time.Time    `db:"created_at"`
}

type ReviewFilter struct {
	BookingID    *int64
	TargetUserID *int64
	AuthorID     *int64
}

type RatingSummary struct {
	Average float64 `db:"average"`
	Count   int     `db:"count"`
}

type RegisteredCompany struct {
	ID           int64  `db:"id"`
	Country      string `db:"country"`
	Code         string `db:"code"`
	RegisteredBy *int64 `db:"registered_by"`
}

type TeamCompany struct {
	ID                  int64  `db:"id"`
	Name                string `db:"name"`
	CreatedBy           int64  `db:"created_by"`
	RegisteredCompanyID *int64 `db:"registered_company_id"`
}

type TeamMember struct {
	ID        int64  `db:"id"`
	CompanyID int64  `db:"company_id"`
	UserID    int64  `db:"user_id"`
	Role      string `db:"role"`
	FullName  string `db:"full_name"`
	Username  string `db:"username"`
	// RegisteredCode is the code of the registered company behind the team, when there is one.
	RegisteredCode *string `db:"registered_code"`
}
