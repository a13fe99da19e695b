package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())

	var req struct {
		Cargo   *int64  `json:"cargo"`
		Truck   *int64  `json:"truck"`
		Message *string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := s.storage.CreateBooking(r.Context(), actorID, storage.ListingRef{CargoID: req.Cargo, TruckID: req.Truck}, req.Message)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())
	bookingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	booking, err := s.storage.GetBooking(r.Context(), actorID, bookingID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func (s *Server) handleTransitionBooking(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())
	bookingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var req struct {
		Status repository.BookingStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	booking, err := s.storage.TransitionBooking(r.Context(), actorID, bookingID, req.Status)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())
	bookingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	purged, err := s.storage.SoftDeleteBooking(r.Context(), actorID, bookingID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Booking deleted",
		"purged":  purged,
	})
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())
	view := repository.BookingView(mux.Vars(r)["view"])

	onBehalfOf, err := queryID(r, "user_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid value for 'user_id' parameter")
		return
	}

	bookings, err := s.storage.ListBookings(r.Context(), actorID, view, onBehalfOf)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}
