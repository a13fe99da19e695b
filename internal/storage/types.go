package storage

import (
	"strings"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
)

type ListingInput struct {
	Kind            repository.ListingKind
	LoadingCity     string
	UnloadingCity   string
	FreightType     string
	DateFrom        time.Time
	DateTo          *time.Time
	Weight          *float64
	Volume          *float64
	Price           *float64
	PriceCurrency   *string
	Phone           *string
	Email           *string
	ExtraInfo       *string
	Hidden          bool
	ShowOnMain      bool
	ShowInAvailable bool
}

func (in ListingInput) validate() error {
	if !validKind(in.Kind) {
		return apperrors.Validation("unknown listing kind %q", in.Kind)
	}
	if strings.TrimSpace(in.LoadingCity) == "" || strings.TrimSpace(in.UnloadingCity) == "" {
		return apperrors.Validation("loading and unloading cities are required")
	}
	if strings.TrimSpace(in.FreightType) == "" {
		return apperrors.Validation("freight type is required")
	}
	if in.DateFrom.IsZero() {
		return apperrors.Validation("date_from is required")
	}
	if in.DateTo != nil && in.DateTo.Before(in.DateFrom) {
		return apperrors.Validation("date_to must not be before date_from")
	}
	for name, v := range map[string]*float64{"weight": in.Weight, "volume": in.Volume, "price": in.Price} {
		if v != nil && *v < 0 {
			return apperrors.Validation("%s must not be negative", name)
		}
	}
	return nil
}

func (in ListingInput) apply(l *repository.Listing) {
	l.Kind = in.Kind
	l.LoadingCity = strings.TrimSpace(in.LoadingCity)
	l.UnloadingCity = strings.TrimSpace(in.UnloadingCity)
	l.FreightType = strings.TrimSpace(in.FreightType)
	l.DateFrom = in.DateFrom
	l.DateTo = in.DateTo
	l.Weight = in.Weight
	l.Volume = in.Volume
	l.Price = in.Price
	l.PriceCurrency = in.PriceCurrency
	l.Phone = in.Phone
	l.Email = in.Email
	l.ExtraInfo = in.ExtraInfo
	l.Hidden = in.Hidden
	l.ShowOnMain = in.ShowOnMain
	l.ShowInAvailable = in.ShowInAvailable
}

func validKind(kind repository.ListingKind) bool {
	return kind == repository.KindCargo || kind == repository.KindTruck
}

type Listing struct {
	ID              int64                  `json:"id"`
	Kind            repository.ListingKind `json:"kind"`
	OwnerID         int64                  `json:"owner_id"`
	OrderNumber     string                 `json:"order_number"`
	LoadingCity     string                 `json:"loading_city"`
	UnloadingCity   string                 `json:"unloading_city"`
	FreightType     string                 `json:"freight_type"`
	DateFrom        string                 `json:"date_from"`
	DateTo          *string                `json:"date_to,omitempty"`
	Weight          *float64               `json:"weight,omitempty"`
	Volume          *float64               `json:"volume,omitempty"`
	Price           *float64               `json:"price,omitempty"`
	PriceCurrency   *string                `json:"price_currency,omitempty"`
	Phone           *string                `json:"phone,omitempty"`
	Email           *string                `json:"email,omitempty"`
	ExtraInfo       *string                `json:"extra_info,omitempty"`
	Hidden          bool                   `json:"hidden"`
	ShowOnMain      bool                   `json:"show_on_main"`
	ShowInAvailable bool                   `json:"show_in_available"`
	CreatedAt       time.Time              `json:"created_at"`
}

const dateLayout = "2006-01-02"

func toListing(l *repository.Listing) *Listing {
	out := &Listing{
		ID:              l.ID,
		Kind:            l.Kind,
		OwnerID:         l.UserID,
		OrderNumber:     l.OrderNumber,
		LoadingCity:     l.LoadingCity,
		UnloadingCity:   l.UnloadingCity,
		FreightType:     l.FreightType,
		DateFrom:        l.DateFrom.Format(dateLayout),
		Weight:          l.Weight,
		Volume:          l.Volume,
		Price:           l.Price,
		PriceCurrency:   l.PriceCurrency,
		Phone:           l.Phone,
		Email:           l.Email,
		ExtraInfo:       l.ExtraInfo,
		Hidden:          l.Hidden,
		ShowOnMain:      l.ShowOnMain,
		ShowInAvailable: l.ShowInAvailable,
		CreatedAt:       l.CreatedAt,
	}
	if l.DateTo != nil {
		s := l.DateTo.Format(dateLayout)
		out.DateTo = &s
	}
	return out
}

func toListings(rows []*repository.Listing) []*Listing {
	out := make([]*Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, toListing(row))
	}
	return out
}

// ListingRef names the listing a booking request targets. Exactly one field must be set.
type ListingRef struct {
	CargoID *int64
	TruckID *int64
}

func (r ListingRef) resolve() (repository.ListingKind, int64, error) {
	switch {
	case r.CargoID != nil && r.TruckID != nil:
		return "", 0, apperrors.Validation("specify either cargo or truck, not both")
	case r.CargoID != nil:
		return repository.KindCargo, *r.CargoID, nil
	case r.TruckID != nil:
		return repository.KindTruck, *r.TruckID, nil
	default:
		return "", 0, apperrors.Validation("specify cargo or truck")
	}
}

type Booking struct {
	ID               int64                    `json:"id"`
	SenderID         int64                    `json:"sender_id"`
	SenderUsername   string                   `json:"sender_username,omitempty"`
	ReceiverID       int64                    `json:"receiver_id"`
	ReceiverUsername string                   `json:"receiver_username,omitempty"`
	CargoID          *int64                   `json:"cargo,omitempty"`
	TruckID          *int64                   `json:"truck,omitempty"`
	Status           repository.BookingStatus `json:"status"`
	Message          *string                  `json:"message,omitempty"`
	SentAt           *time.Time               `json:"sent_at,omitempty"`
	AcceptedAt       *time.Time               `json:"accepted_at,omitempty"`
	FinishedAt       *time.Time               `json:"finished_at,omitempty"`
	FinishedBy       *int64                   `json:"finished_by,omitempty"`
	ArchivedAt       *time.Time               `json:"archived_at,omitempty"`
}

func toBooking(b *repository.BookingRequest) *Booking {
	return &Booking{
		ID:               b.ID,
		SenderID:         b.SenderID,
		SenderUsername:   b.SenderUsername,
		ReceiverID:       b.ReceiverID,
		ReceiverUsername: b.ReceiverUsername,
		CargoID:          b.CargoID,
		TruckID:          b.TruckID,
		Status:           b.Status,
		Message:          b.Message,
		SentAt:           b.SentAt,
		AcceptedAt:       b.AcceptedAt,
		FinishedAt:       b.FinishedAt,
		FinishedBy:       b.FinishedBy,
		ArchivedAt:       b.ArchivedAt,
	}
}

type ArchiveRecord struct {
	Kind          repository.ListingKind    `json:"kind"`
	ListingID     *int64                    `json:"listing_id,omitempty"`
	OrderNumber   string                    `json:"order_number"`
	LoadingCity   string                    `json:"loading_city"`
	UnloadingCity string                    `json:"unloading_city"`
	Price         *float64                  `json:"price,omitempty"`
	SenderID      *int64                    `json:"sender_id,omitempty"`
	ReceiverID    *int64                    `json:"receiver_id,omitempty"`
	SentAt        *time.Time                `json:"sent_at,omitempty"`
	AcceptedAt    *time.Time                `json:"accepted_at,omitempty"`
	FinishedAt    *time.Time                `json:"finished_at,omitempty"`
	FinishedBy    *int64                    `json:"finished_by,omitempty"`
	ArchivedAt    *time.Time                `json:"archived_at,omitempty"`
	Status        *repository.BookingStatus `json:"status,omitempty"`
}

type ReviewInput struct {
	TargetUserID int64
	BookingID    *int64
	Rating       int
	Comment      *string
}

type Review struct {
	ID            int64                   `json:"id"`
	AuthorID      int64                   `json:"author_id"`
	TargetUserID  int64                   `json:"target_user_id"`
	BookingID     *int64                  `json:"booking_id,omitempty"`
	ListingKind   *repository.ListingKind `json:"listing_kind,omitempty"`
	OrderNumber   *string                 `json:"order_number,omitempty"`
	LoadingCity   *string                 `json:"loading_city,omitempty"`
	UnloadingCity *string                 `json:"unloading_city,omitempty"`
	FreightType   *string                 `json:"freight_type,omitempty"`
	Price         *float64                `json:"price,omitempty"`
	Rating        int                     `json:"rating"`
	Comment       *string                 `json:"comment,omitempty"`
	IsVisible     bool                    `json:"is_visible"`
	CreatedAt     time.Time               `json:"created_at"`
}

func toReview(r *repository.Review) *Review {
	return &Review{
		ID:            r.ID,
		AuthorID:      r.AuthorID,
		TargetUserID:  r.TargetUserID,
		BookingID:     r.BookingID,
		ListingKind:   r.ListingKind,
		OrderNumber:   r.OrderNumber,
		LoadingCity:   r.LoadingCity,
		UnloadingCity: r.UnloadingCity,
		FreightType:   r.FreightType,
		Price:         r.Price,
		Rating:        r.Rating,
		Comment:       r.Comment,
		IsVisible:     r.IsVisible,
		CreatedAt:     r.CreatedAt,
	}
}

type RatingSummary struct {
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

type TeamMember struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
