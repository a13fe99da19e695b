package server

import (
	"net/http"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())

	notifications, err := s.notifications.List(r.Context(), actorID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())
	notificationID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := s.notifications.MarkRead(r.Context(), actorID, notificationID); err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

type preference struct {
	NotificationsEnabled *bool `json:"notifications_enabled"`
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())

	enabled, err := s.notifications.Enabled(r.Context(), actorID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, preference{NotificationsEnabled: &enabled})
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	actorID, _ := actorFromContext(r.Context())

	var req preference
	if err := decodeJSON(r, &req); err != nil || req.NotificationsEnabled == nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.notifications.SetEnabled(r.Context(), actorID, *req.NotificationsEnabled); err != nil {
		s.respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}
