package models

import "time"

// TimeSlot is one configured booking time ("HH:mm") for a
// (branch, appointment type) pair. Deactivated slots stay around so
// past appointments keep a valid reference.
type TimeSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BranchID          uint `gorm:"uniqueIndex:idx_slot_branch_type_time" json:"branch_id"`
	AppointmentTypeID uint `gorm:"uniqueIndex:idx_slot_branch_type_time" json:"appointment_type_id"`

	Time   string `gorm:"size:5;uniqueIndex:idx_slot_branch_type_time" json:"time"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
