package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
)

// AddMortgageData records mortgage details against the authenticated user.
func (h *Handlers) AddMortgageData(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req domain.MortgageDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	if err := h.mortgageService.AddDetails(r.Context(), user, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Data added successfully",
	})
}

// GetMortgageData returns the authenticated user's mortgage submissions.
func (h *Handlers) GetMortgageData(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	data, err := h.mortgageService.GetDetails(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}
