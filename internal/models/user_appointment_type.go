package models

import "time"

// UserAppointmentType restricts which appointment types a staff user may
// see and manage. No rows for a user means no restriction.
type UserAppointmentType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID            uint `gorm:"uniqueIndex:idx_user_appointment_type" json:"user_id"`
	AppointmentTypeID uint `gorm:"uniqueIndex:idx_user_appointment_type" json:"appointment_type_id"`

	CreatedAt time.Time `json:"created_at"`
}
