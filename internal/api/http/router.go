package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Customer     *CustomerHandler
	Spot         *SpotHandler
	Parking      *ParkingHandler
	Notification *NotificationHandler
}

// NewRouter wires all routes. Reservation lifecycle endpoints and spot
// administration sit behind operator authentication; customer registration
// and login do not.
func NewRouter(h Handlers, auth *AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/customers", h.Customer.RegisterCustomer).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(auth.RequireOperator)

	protected.HandleFunc("/operators", h.Auth.CreateOperator).Methods(http.MethodPost)

	protected.HandleFunc("/customers/{id}", h.Customer.GetCustomer).Methods(http.MethodGet)
	protected.HandleFunc("/customers/{id}/vehicles", h.Customer.AddVehicle).Methods(http.MethodPost)
	protected.HandleFunc("/customers/{id}/vehicles", h.Customer.ListVehicles).Methods(http.MethodGet)
	protected.HandleFunc("/customers/{id}/notifications", h.Notification.ListNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/customers/{id}/notifications/{notificationId}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	protected.HandleFunc("/spots", h.Spot.CreateSpot).Methods(http.MethodPost)
	protected.HandleFunc("/spots", h.Spot.ListSpots).Methods(http.MethodGet)
	protected.HandleFunc("/spots/{id}", h.Spot.GetSpot).Methods(http.MethodGet)
	protected.HandleFunc("/spots/{id}/rate", h.Spot.UpdateHourlyRate).Methods(http.MethodPut)
	protected.HandleFunc("/spots/{id}/status", h.Spot.SetSpotStatus).Methods(http.MethodPut)
	protected.HandleFunc("/spots/{spotId}/active-reservation", h.Parking.ActiveReservationForSpot).Methods(http.MethodGet)

	protected.HandleFunc("/reservations", h.Parking.StartParking).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/search", h.Parking.SearchByPlate).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{id}/complete", h.Parking.CompleteParking).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id}/cancel", h.Parking.CancelParking).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id}/finalize", h.Parking.OperatorFinalize).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{id}/estimate", h.Parking.EstimateFee).Methods(http.MethodGet)

	return r
}
