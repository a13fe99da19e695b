package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// auditLogMiddleware records every authenticated request. Status changes of a booking carry the
// status before the request and the requested one.
func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := AuditLogEntry{
			Timestamp: s.now(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Handler:   routeName(r),
		}

		actorID, _ := actorFromContext(r.Context())
		entry.UserID = strconv.FormatInt(actorID, 10)

		if strings.HasPrefix(r.URL.Path, "/bookings/") {
			entry.BookingID = mux.Vars(r)["id"]
		}

		skipRequestBody := strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data")
		if !skipRequestBody && r.Body != nil {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = string(requestBody)

			if entry.BookingID != "" && r.Method == http.MethodPatch {
				s.fillStatusChange(r, &entry, actorID, requestBody)
			}
		}

		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		entry.StatusCode = wrw.GetStatusCode()
		entry.Response = string(wrw.GetBody())

		s.auditManager.LogEntry(r.Context(), entry)
	})
}

func (s *Server) fillStatusChange(r *http.Request, entry *AuditLogEntry, actorID int64, body []byte) {
	var statusRequest struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &statusRequest); err != nil {
		return
	}
	bookingID, err := strconv.ParseInt(entry.BookingID, 10, 64)
	if err != nil {
		return
	}
	if booking, err := s.storage.GetBooking(r.Context(), actorID, bookingID); err == nil {
		entry.OldStatus = string(booking.Status)
		entry.NewStatus = statusRequest.Status
	}
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
		return route.GetName()
	}
	return "unknown"
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
	buffer     bytes.Buffer
}

func newResponseWriterWrapper(w http.ResponseWriter) *responseWriterWrapper {
	return &responseWriterWrapper{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(b []byte) (int, error) {
	w.buffer.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriterWrapper) GetStatusCode() int {
	return w.statusCode
}

func (w *responseWriterWrapper) GetBody() []byte {
	return w.buffer.Bytes()
}
