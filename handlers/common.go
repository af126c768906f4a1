package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"kawasaki_site/models"
)

func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
		"code":  statusCode,
	})
}

// writeError maps the typed core errors onto HTTP status codes.
// Upstream detail stays in the log, not in the response body.
func writeError(w http.ResponseWriter, err error) {
	var (
		usageErr   *models.UsageError
		validation *models.ValidationError
		notFound   *models.NotFoundError
		upstream   *models.UpstreamError
	)
	switch {
	case errors.As(err, &usageErr), errors.As(err, &validation):
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &notFound):
		sendErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &upstream):
		log.Printf("Upstream failure: %v", err)
		sendErrorResponse(w, "data source unavailable", http.StatusBadGateway)
	default:
		log.Printf("Unexpected error: %v", err)
		sendErrorResponse(w, "internal server error", http.StatusInternalServerError)
	}
}

func sendJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
