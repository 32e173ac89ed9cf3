package domain

import "time"

type Notification struct {
	ID         int32             `json:"id"`
	CustomerID int32             `json:"customer_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Read       bool              `json:"read"`
	CreatedOn  time.Time         `json:"created_on"`
}
