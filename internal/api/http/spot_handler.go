package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/service"
)

type SpotHandler struct {
	spotSvc service.SpotService
}

func NewSpotHandler(spotSvc service.SpotService) *SpotHandler {
	return &SpotHandler{spotSvc: spotSvc}
}

type createSpotRequest struct {
	Number          string `json:"number"`
	Type            string `json:"type"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
}

func (h *SpotHandler) CreateSpot(w http.ResponseWriter, r *http.Request) {
	claims, ok := operatorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "operator identity required"})
		return
	}
	var req createSpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Number == "" {
		writeBadRequest(w, "number is required")
		return
	}

	spot, err := h.spotSvc.CreateSpot(r.Context(), claims.UserID, req.Number, domain.SpotType(req.Type), req.HourlyRateCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, spot)
}

func (h *SpotHandler) GetSpot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	spot, err := h.spotSvc.GetSpot(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

func (h *SpotHandler) ListSpots(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	spots, total, err := h.spotSvc.ListSpots(r.Context(), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"spots": spots, "total": total})
}

type updateRateRequest struct {
	HourlyRateCents int64 `json:"hourly_rate_cents"`
}

func (h *SpotHandler) UpdateHourlyRate(w http.ResponseWriter, r *http.Request) {
	claims, ok := operatorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "operator identity required"})
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	spot, err := h.spotSvc.UpdateHourlyRate(r.Context(), claims.UserID, id, req.HourlyRateCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *SpotHandler) SetSpotStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := operatorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "operator identity required"})
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	spot, err := h.spotSvc.SetSpotStatus(r.Context(), claims.UserID, id, domain.SpotStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}

func pagination(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 && v <= 100 {
			pageSize = int32(v)
		}
	}
	return page, pageSize
}
