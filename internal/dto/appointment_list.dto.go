package dto

import "time"

type AppointmentListDTO struct {
	ID                uint      `json:"id"`
	AppointmentNumber string    `json:"appointment_number"`
	AppointmentDate   time.Time `json:"appointment_date"`
	Status            string    `json:"status"`
	ClientName        string    `json:"client_name"`
	TypeName          string    `json:"type_name"`
}
