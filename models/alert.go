package models

import "time"

// EmailAlert is an outbound notification request.
type EmailAlert struct {
	Email   string `json:"email"`
	Message string `json:"message"`
	Subject string `json:"subject"`
}

// AlertStatus records the outcome of a send attempt.
type AlertStatus string

const (
	AlertStatusSent   AlertStatus = "sent"
	AlertStatusFailed AlertStatus = "failed"
)

// AlertRecord is one entry of the optional "alerts" collection.
type AlertRecord struct {
	ID           string      `bson:"_id"                    json:"id"` // UUID
	Email        string      `bson:"email"                  json:"email"`
	Subject      string      `bson:"subject"                json:"subject"`
	Message      string      `bson:"message"                json:"message"`
	Status       AlertStatus `bson:"status"                 json:"status"` // sent | failed
	SentAt       time.Time   `bson:"sentAt"                 json:"sentAt"`
	ErrorMessage string      `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
}
