package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"parkwise-backend/internal/service"
)

type ParkingHandler struct {
	parkingSvc service.ParkingService
}

func NewParkingHandler(parkingSvc service.ParkingService) *ParkingHandler {
	return &ParkingHandler{parkingSvc: parkingSvc}
}

type startParkingRequest struct {
	CustomerID       int32      `json:"customer_id"`
	VehicleID        int32      `json:"vehicle_id"`
	SpotID           int32      `json:"spot_id"`
	EntryTime        *time.Time `json:"entry_time,omitempty"`
	ExpectedExitTime *time.Time `json:"expected_exit_time,omitempty"`
}

func (h *ParkingHandler) StartParking(w http.ResponseWriter, r *http.Request) {
	var req startParkingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.CustomerID == 0 || req.VehicleID == 0 || req.SpotID == 0 {
		writeBadRequest(w, "customer_id, vehicle_id and spot_id are required")
		return
	}

	rsv, err := h.parkingSvc.StartParking(r.Context(), service.StartParkingInput{
		CustomerID:       req.CustomerID,
		VehicleID:        req.VehicleID,
		SpotID:           req.SpotID,
		EntryTime:        req.EntryTime,
		ExpectedExitTime: req.ExpectedExitTime,
		IdempotencyKey:   r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rsv)
}

type completeParkingRequest struct {
	ExitTime *time.Time `json:"exit_time,omitempty"`
}

func (h *ParkingHandler) CompleteParking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req completeParkingRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
	}

	rsv, err := h.parkingSvc.CompleteParking(r.Context(), id, req.ExitTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rsv)
}

func (h *ParkingHandler) CancelParking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rsv, err := h.parkingSvc.CancelParking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rsv)
}

type operatorFinalizeRequest struct {
	ExitTime            *time.Time `json:"exit_time,omitempty"`
	OverrideAmountCents *int64     `json:"override_amount_cents,omitempty"`
}

func (h *ParkingHandler) OperatorFinalize(w http.ResponseWriter, r *http.Request) {
	claims, ok := operatorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "operator identity required"})
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req operatorFinalizeRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
	}

	rsv, err := h.parkingSvc.OperatorFinalize(r.Context(), claims.UserID, id, req.ExitTime, req.OverrideAmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rsv)
}

func (h *ParkingHandler) SearchByPlate(w http.ResponseWriter, r *http.Request) {
	plate := r.URL.Query().Get("plate")
	if plate == "" {
		writeBadRequest(w, "plate query parameter is required")
		return
	}
	reservations, err := h.parkingSvc.SearchByPlate(r.Context(), plate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *ParkingHandler) ActiveReservationForSpot(w http.ResponseWriter, r *http.Request) {
	spotID, ok := pathID(w, r, "spotId")
	if !ok {
		return
	}
	rsv, err := h.parkingSvc.ActiveReservationForSpot(r.Context(), spotID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rsv)
}

func (h *ParkingHandler) EstimateFee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	breakdown, err := h.parkingSvc.EstimateParkingFee(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid "+name)
		return 0, false
	}
	return int32(id), true
}
