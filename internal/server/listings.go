package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/storage"
)

const dateLayout = "2006-01-02"

type listingRequest struct {
	Kind            repository.ListingKind `json:"kind"`
	LoadingCity     string                 `json:"loading_city"`
	UnloadingCity   string                 `json:"unloading_city"`
	FreightType     string                 `json:"freight_type"`
	DateFrom        string                 `json:"date_from"`
	DateTo          *string                `json:"date_to"`
	Weight          *float64               `json:"weight"`
	Volume          *float64               `json:"volume"`
	Price           *float64               `json:"price"`
	PriceCurrency   *string                `json:"price_currency"`
	Phone           *string                `json:"phone"`
	Email           *string                `json:"email"`
	ExtraInfo       *string                `json:"extra_info"`
	Hidden          bool                   `json:"hidden"`
	ShowOnMain      *bool                  `json:"show_on_main"`
	ShowInAvailable *bool                  `json:"show_in_available"`
}

func (req listingRequest) toInput() (storage.ListingInput, error) {
	in := storage.ListingInput{
		Kind:            req.Kind,
		LoadingCity:     req.LoadingCity,
		UnloadingCity:   req.UnloadingCity,
		FreightType:     req.FreightType,
		Weight:          req.Weight,
		Volume:          req.Volume,
		Price:           req.Price,
		PriceCurrency:   req.PriceCurrency,
		Phone:           req.Phone,
		Email:           req.Email,
		ExtraInfo:       req.ExtraInfo,
		Hidden:          req.Hidden,
		ShowOnMain:      true,
		ShowInAvailable: true,
	}
	if req.ShowOnMain != nil {
		in.ShowOnMain = *req.ShowOnMain
	}
	if req.ShowInAvailable != nil {
		in.ShowInAvailable = *req.ShowInAvailable
	}

	dateFrom, err := time.Parse(dateLayout, req.DateFrom)
	if err != nil {
		return in, err
	}
	in.DateFrom = dateFrom

	if req.DateTo != nil && *req.DateTo != "" {
		dateTo, err := time.Parse(dateLayout, *req.DateTo)
		if err != nil {
			return in, err
		}
		in.DateTo = &dateTo
	}
	return in, nil
}

func decodeListing(w http.ResponseWriter, r *http.Request) (storage.ListingInput, bool) {
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return storage.ListingInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return storage.ListingInput{}, false
	}
	return in, true
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())

	in, ok := decodeListing(w, r)
	if !ok {
		return
	}

	listing, err := s.storage.CreateListing(r.Context(), actorID, in)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, listing)
}

func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())
	listingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid listing ID")
		return
	}

	in, ok := decodeListing(w, r)
	if !ok {
		return
	}

	listing, err := s.storage.UpdateListing(r.Context(), actorID, listingID, in)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())
	listingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid listing ID")
		return
	}

	if err := s.storage.DeleteListing(r.Context(), actorID, listingID); err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Listing deleted"})
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	feed := repository.ListingFeed(mux.Vars(r)["feed"])
	kind := repository.ListingKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = repository.KindCargo
	}

	listings, err := s.storage.ListListings(r.Context(), feed, kind, r.URL.Query().Get("sort"))
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listings)
}

func (s *Server) handleFindListing(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	if number == "" {
		respondError(w, http.StatusBadRequest, "Missing order number")
		return
	}

	listing, err := s.storage.FindByOrderNumber(r.Context(), number)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

func (s *Server) handleArchiveRecord(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())
	listingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid listing ID")
		return
	}

	record, err := s.storage.ArchiveRecord(r.Context(), actorID, listingID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (s *Server) handleListTeamMembers(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())

	members, err := s.storage.ListTeamMembers(r.Context(), actorID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

func (s *Server) handleListMemberListings(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())
	memberID, err := pathID(r, "user_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	kind := repository.ListingKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = repository.KindCargo
	}

	listings, err := s.storage.ListMemberListings(r.Context(), actorID, memberID, kind)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listings)
}
