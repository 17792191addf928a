package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentNumber string `gorm:"size:30;uniqueIndex;not null" json:"appointment_number"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	BranchID uint   `json:"branch_id"`
	Branch   Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"branch"`

	AppointmentTypeID uint            `json:"appointment_type_id"`
	AppointmentType   AppointmentType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"appointment_type"`

	AppointmentDate time.Time `json:"appointment_date"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes        string `gorm:"size:255" json:"notes"`
	CancelReason string `gorm:"size:255" json:"cancel_reason"`

	// Soft delete. Hides the row from default listings, never removes it.
	IsActive bool `gorm:"default:true" json:"is_active"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
