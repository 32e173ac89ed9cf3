package domain

import "time"

type VehicleType string

const (
	VehicleTypeCar        VehicleType = "CAR"
	VehicleTypeMotorcycle VehicleType = "MOTORCYCLE"
	VehicleTypeTruck      VehicleType = "TRUCK"
)

type Vehicle struct {
	ID         int32       `json:"id"`
	CustomerID int32       `json:"customer_id"`
	Plate      string      `json:"plate"`
	Model      string      `json:"model"`
	Type       VehicleType `json:"type"`
	CreatedOn  time.Time   `json:"created_on"`
	UpdatedOn  time.Time   `json:"updated_on"`
}
