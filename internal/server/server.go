//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/apperrors"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/notify"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

type Storage interface {
	CreateListing(ctx context.Context, ownerID int64, in storage.ListingInput) (*storage.Listing, error)
	UpdateListing(ctx context.Context, actorID, listingID int64, in storage.ListingInput) (*storage.Listing, error)
	DeleteListing(ctx context.Context, actorID, listingID int64) error
	ListListings(ctx context.Context, feed repository.ListingFeed, kind repository.ListingKind, sort string) ([]*storage.Listing, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*storage.Listing, error)
	ArchiveRecord(ctx context.Context, actorID, listingID int64) (*storage.ArchiveRecord, error)

	CreateBooking(ctx context.Context, senderID int64, ref storage.ListingRef, message *string) (*storage.Booking, error)
	GetBooking(ctx context.Context, actorID, bookingID int64) (*storage.Booking, error)
	TransitionBooking(ctx context.Context, actorID, bookingID int64, to repository.BookingStatus) (*storage.Booking, error)
	SoftDeleteBooking(ctx context.Context, actorID, bookingID int64) (bool, error)
	ListBookings(ctx context.Context, actorID int64, view repository.BookingView, onBehalfOf *int64) ([]*storage.Booking, error)

	CreateReview(ctx context.Context, authorID int64, in storage.ReviewInput) (*storage.Review, error)
	ListReviews(ctx context.Context, viewerID int64, filter repository.ReviewFilter) ([]*storage.Review, error)
	UserRating(ctx context.Context, userID int64) (*storage.RatingSummary, error)

	ListTeamMembers(ctx context.Context, actorID int64) ([]*storage.TeamMember, error)
	ListMemberListings(ctx context.Context, actorID, memberID int64, kind repository.ListingKind) ([]*storage.Listing, error)
}

type Notifications interface {
	List(ctx context.Context, userID int64) ([]*notify.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	Enabled(ctx context.Context, userID int64) (bool, error)
	SetEnabled(ctx context.Context, userID int64, enabled bool) error
}

type UserRepo interface {
	Authenticate(ctx context.Context, username, password string) (*repository.User, error)
}

type Server struct {
	storage       Storage
	notifications Notifications
	userRepo      UserRepo
	auditManager  *AuditManager
	ws            http.Handler
	logger        *zap.Logger
	server        *http.Server
	now           func() time.Time
}

func New(storage Storage, notifications Notifications, userRepo UserRepo, auditManager *AuditManager, ws http.Handler, logger *zap.Logger) *Server {
	return &Server{
		storage:       storage,
		notifications: notifications,
		userRepo:      userRepo,
		auditManager:  auditManager,
		ws:            ws,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Run serves the API until Shutdown is called.
func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:              ":" + port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	s.auditManager.Start(ctx)

	s.logger.Info("Server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.logger.Info("HTTP server shutdown completed")

	s.auditManager.Shutdown(ctx)
	return nil
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.Handle("/ws/notifications/{user_id}", s.ws).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	api.Use(s.basicAuthMiddleware, s.metricsMiddleware, s.auditLogMiddleware)

	api.HandleFunc("/listings", s.handleCreateListing).Methods(http.MethodPost).Name("create_listing")
	api.HandleFunc("/listings/feed/{feed}", s.handleListListings).Methods(http.MethodGet).Name("list_listings")
	api.HandleFunc("/listings/lookup", s.handleFindListing).Methods(http.MethodGet).Name("find_listing")
	api.HandleFunc("/listings/{id:[0-9]+}", s.handleUpdateListing).Methods(http.MethodPut).Name("update_listing")
	api.HandleFunc("/listings/{id:[0-9]+}", s.handleDeleteListing).Methods(http.MethodDelete).Name("delete_listing")
	api.HandleFunc("/listings/{id:[0-9]+}/archive", s.handleArchiveRecord).Methods(http.MethodGet).Name("archive_record")

	api.HandleFunc("/team/members", s.handleListTeamMembers).Methods(http.MethodGet).Name("list_team_members")
	api.HandleFunc("/team/members/{user_id:[0-9]+}/listings", s.handleListMemberListings).Methods(http.MethodGet).Name("list_member_listings")

	api.HandleFunc("/bookings", s.handleCreateBooking).Methods(http.MethodPost).Name("create_booking")
	api.HandleFunc("/bookings/views/{view}", s.handleListBookings).Methods(http.MethodGet).Name("list_bookings")
	api.HandleFunc("/bookings/{id:[0-9]+}", s.handleGetBooking).Methods(http.MethodGet).Name("get_booking")
	api.HandleFunc("/bookings/{id:[0-9]+}", s.handleTransitionBooking).Methods(http.MethodPatch).Name("transition_booking")
	api.HandleFunc("/bookings/{id:[0-9]+}", s.handleDeleteBooking).Methods(http.MethodDelete).Name("delete_booking")

	api.HandleFunc("/notifications", s.handleListNotifications).Methods(http.MethodGet).Name("list_notifications")
	api.HandleFunc("/notifications/preference", s.handleGetPreference).Methods(http.MethodGet).Name("get_preference")
	api.HandleFunc("/notifications/preference", s.handleSetPreference).Methods(http.MethodPut).Name("set_preference")
	api.HandleFunc("/notifications/{id:[0-9]+}/read", s.handleMarkRead).Methods(http.MethodPost).Name("mark_read")

	api.HandleFunc("/reviews", s.handleCreateReview).Methods(http.MethodPost).Name("create_review")
	api.HandleFunc("/reviews", s.handleListReviews).Methods(http.MethodGet).Name("list_reviews")
	api.HandleFunc("/users/{id:[0-9]+}/rating", s.handleUserRating).Methods(http.MethodGet).Name("user_rating")

	return router
}

type ctxKey struct{}

func withActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func actorFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.userRepo.Authenticate(r.Context(), username, password)
		if err != nil {
			if !errors.Is(err, repository.ErrInvalidCredentials) {
				s.logger.Error("Failed to authenticate user", zap.String("username", username), zap.Error(err))
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), user.ID)))
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrw := newResponseWriterWrapper(w)
		next.ServeHTTP(wrw, r)
		metrics.HTTPRequestsTotal.WithLabelValues(routeName(r), strconv.Itoa(wrw.GetStatusCode())).Inc()
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondAppError maps service errors to HTTP statuses. Unknown errors are logged and hidden.
func (s *Server) respondAppError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrCompanyResolution):
		status = http.StatusUnprocessableEntity
	default:
		s.logger.Error("Request failed",
			zap.String("handler", routeName(r)),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondError(w, status, apperrors.Message(err))
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// queryID parses an optional numeric query parameter.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func decodeJSON(r *http.Request, dest interface{}) error {
	return json.NewDecoder(r.Body).Decode(dest)
}
