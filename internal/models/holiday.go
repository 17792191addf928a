package models

import "time"

// Holiday blocks booking for one calendar date. A nil BranchID means the
// holiday applies company-wide.
type Holiday struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BranchID *uint     `json:"branch_id"`
	Date     time.Time `gorm:"type:date;not null" json:"date"`
	Name     string    `gorm:"size:100" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
