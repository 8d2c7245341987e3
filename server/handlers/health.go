package handlers

import "net/http"

// HandleHealth is a simple health check handler that returns "ok". It does
// not contact the backend.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
