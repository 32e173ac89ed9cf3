package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/service"
	"parkwise-backend/internal/utils"
)

// stubParkingService lets each test inject exactly the behavior it needs.
type stubParkingService struct {
	startFn    func(ctx context.Context, in service.StartParkingInput) (*domain.Reservation, error)
	completeFn func(ctx context.Context, reservationID int32, exitTime *time.Time) (*domain.Reservation, error)
	cancelFn   func(ctx context.Context, reservationID int32) (*domain.Reservation, error)
	finalizeFn func(ctx context.Context, operatorID, reservationID int32, exitTime *time.Time, overrideAmountCents *int64) (*domain.Reservation, error)
	searchFn   func(ctx context.Context, plate string) ([]domain.Reservation, error)
	activeFn   func(ctx context.Context, spotID int32) (*domain.Reservation, error)
	estimateFn func(ctx context.Context, reservationID int32) (utils.ParkingFeeBreakdown, error)
}

func (s *stubParkingService) StartParking(ctx context.Context, in service.StartParkingInput) (*domain.Reservation, error) {
	return s.startFn(ctx, in)
}

func (s *stubParkingService) CompleteParking(ctx context.Context, reservationID int32, exitTime *time.Time) (*domain.Reservation, error) {
	return s.completeFn(ctx, reservationID, exitTime)
}

func (s *stubParkingService) CancelParking(ctx context.Context, reservationID int32) (*domain.Reservation, error) {
	return s.cancelFn(ctx, reservationID)
}

func (s *stubParkingService) OperatorFinalize(ctx context.Context, operatorID, reservationID int32, exitTime *time.Time, overrideAmountCents *int64) (*domain.Reservation, error) {
	return s.finalizeFn(ctx, operatorID, reservationID, exitTime, overrideAmountCents)
}

func (s *stubParkingService) SearchByPlate(ctx context.Context, plate string) ([]domain.Reservation, error) {
	return s.searchFn(ctx, plate)
}

func (s *stubParkingService) ActiveReservationForSpot(ctx context.Context, spotID int32) (*domain.Reservation, error) {
	return s.activeFn(ctx, spotID)
}

func (s *stubParkingService) EstimateParkingFee(ctx context.Context, reservationID int32) (utils.ParkingFeeBreakdown, error) {
	return s.estimateFn(ctx, reservationID)
}

func parkingRouter(svc service.ParkingService) *mux.Router {
	h := NewParkingHandler(svc)
	r := mux.NewRouter()
	r.HandleFunc("/reservations", h.StartParking).Methods(http.MethodPost)
	r.HandleFunc("/reservations/search", h.SearchByPlate).Methods(http.MethodGet)
	r.HandleFunc("/reservations/{id}/complete", h.CompleteParking).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{id}/cancel", h.CancelParking).Methods(http.MethodPost)
	r.HandleFunc("/spots/{spotId}/active-reservation", h.ActiveReservationForSpot).Methods(http.MethodGet)
	return r
}

func TestStartParkingHandler(t *testing.T) {
	var got service.StartParkingInput
	svc := &stubParkingService{
		startFn: func(ctx context.Context, in service.StartParkingInput) (*domain.Reservation, error) {
			got = in
			return &domain.Reservation{ID: 10, Code: "res-code", Status: domain.ReservationStatusActive}, nil
		},
	}
	router := parkingRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{"customer_id": 1, "vehicle_id": 2, "spot_id": 3})
	req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(body))
	req.Header.Set("Idempotency-Key", "retry-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int32(1), got.CustomerID)
	assert.Equal(t, int32(2), got.VehicleID)
	assert.Equal(t, int32(3), got.SpotID)
	assert.Equal(t, "retry-abc", got.IdempotencyKey)

	var resp domain.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int32(10), resp.ID)
}

func TestStartParkingHandler_MissingFields(t *testing.T) {
	router := parkingRouter(&stubParkingService{})

	body, _ := json.Marshal(map[string]interface{}{"customer_id": 1})
	req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartParkingHandler_SpotConflict(t *testing.T) {
	svc := &stubParkingService{
		startFn: func(ctx context.Context, in service.StartParkingInput) (*domain.Reservation, error) {
			return nil, domain.ErrSpotNotAvailable
		},
	}
	router := parkingRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{"customer_id": 1, "vehicle_id": 2, "spot_id": 3})
	req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCompleteParkingHandler(t *testing.T) {
	amount := int64(1200)
	svc := &stubParkingService{
		completeFn: func(ctx context.Context, reservationID int32, exitTime *time.Time) (*domain.Reservation, error) {
			assert.Equal(t, int32(10), reservationID)
			assert.Nil(t, exitTime)
			return &domain.Reservation{ID: 10, Status: domain.ReservationStatusCompleted, TotalAmountCents: &amount}, nil
		},
	}
	router := parkingRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/reservations/10/complete", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.TotalAmountCents)
	assert.Equal(t, int64(1200), *resp.TotalAmountCents)
}

func TestCompleteParkingHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"already finalized", domain.ErrReservationAlreadyFinalized, http.StatusConflict},
		{"invalid exit", domain.ErrInvalidExit, http.StatusUnprocessableEntity},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubParkingService{
				completeFn: func(ctx context.Context, reservationID int32, exitTime *time.Time) (*domain.Reservation, error) {
					return nil, tt.serviceErr
				},
			}
			router := parkingRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/reservations/10/complete", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCompleteParkingHandler_BadID(t *testing.T) {
	router := parkingRouter(&stubParkingService{})

	req := httptest.NewRequest(http.MethodPost, "/reservations/abc/complete", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchByPlateHandler(t *testing.T) {
	svc := &stubParkingService{
		searchFn: func(ctx context.Context, plate string) ([]domain.Reservation, error) {
			assert.Equal(t, "ABC-123", plate)
			return []domain.Reservation{{ID: 10}}, nil
		},
	}
	router := parkingRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/reservations/search?plate=ABC-123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []domain.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}

func TestSearchByPlateHandler_MissingPlate(t *testing.T) {
	router := parkingRouter(&stubParkingService{})

	req := httptest.NewRequest(http.MethodGet, "/reservations/search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActiveReservationForSpotHandler_NotFound(t *testing.T) {
	svc := &stubParkingService{
		activeFn: func(ctx context.Context, spotID int32) (*domain.Reservation, error) {
			return nil, domain.ErrNotFound
		},
	}
	router := parkingRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/spots/3/active-reservation", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
