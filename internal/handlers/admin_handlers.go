package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"github.com/go-chi/chi/v5"
)

// Admin handlers require an admin-role token (see RequireAdmin).

// ListUsers returns all accounts without sensitive fields.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	users, err := h.authService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	userInfos := make([]*domain.UserInfo, len(users))
	for i := range users {
		userInfos[i] = users[i].ToUserInfo()
	}

	writeJSON(w, http.StatusOK, userInfos)
}

// ReferralsByReferralID lists referrals attributed to a referral ID.
func (h *Handlers) ReferralsByReferralID(w http.ResponseWriter, r *http.Request) {
	referralID := chi.URLParam(r, "referralID")
	if referralID == "" {
		writeError(w, http.StatusBadRequest, "Referral ID is required", "INVALID_INPUT")
		return
	}

	referrals, err := h.referralService.ListByReferralID(r.Context(), referralID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if referrals == nil {
		referrals = []domain.Referral{}
	}
	writeJSON(w, http.StatusOK, referrals)
}

// UpdateReferralStatus moves a referral through its lifecycle.
func (h *Handlers) UpdateReferralStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Referral ID is required", "INVALID_INPUT")
		return
	}

	var req domain.ReferralStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}
	if !domain.IsValidReferralStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid referral status", "INVALID_INPUT")
		return
	}

	if err := h.referralService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Referral status updated successfully",
	})
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
