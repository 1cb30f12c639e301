package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
)

// SubmitReferral records a lead attributed to the authenticated user.
func (h *Handlers) SubmitReferral(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req domain.CreateReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	referral, err := h.referralService.Submit(r.Context(), user, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, referral)
}

// MyReferrals lists the authenticated user's submitted referrals.
func (h *Handlers) MyReferrals(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	referrals, err := h.referralService.ListMine(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if referrals == nil {
		referrals = []domain.Referral{}
	}
	writeJSON(w, http.StatusOK, referrals)
}
