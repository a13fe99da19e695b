package server

import (
	"net/http"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())

	var req struct {
		TargetUser int64   `json:"target_user"`
		Booking    *int64  `json:"booking"`
		Rating     int     `json:"rating"`
		Comment    *string `json:"comment"`
	}
	if err := decodeJSON(r, &req); err != nil || req.TargetUser == 0 {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := s.storage.CreateReview(r.Context(), actorID, storage.ReviewInput{
		TargetUserID: req.TargetUser,
		BookingID:    req.Booking,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())

	var (
		filter repository.ReviewFilter
		err    error
	)
	for name, dest := range map[string]**int64{
		"booking":     &filter.BookingID,
		"target_user": &filter.TargetUserID,
		"author":      &filter.AuthorID,
	} {
		if *dest, err = queryID(r, name); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid value for '"+name+"' parameter")
			return
		}
	}

	reviews, err := s.storage.ListReviews(r.Context(), actorID, filter)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleUserRating(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	summary, err := s.storage.UserRating(r.Context(), userID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
