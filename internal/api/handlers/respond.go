package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// readBody reads the (size-capped) request body.
// status is 413 when the cap was hit, 400 otherwise.
func readBody(r *http.Request) ([]byte, int, error) {
	if r.Body == nil {
		return nil, http.StatusBadRequest, errors.New("empty request body")
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, err
		}
		return nil, http.StatusBadRequest, err
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, errors.New("empty request body")
	}
	return data, http.StatusOK, nil
}
