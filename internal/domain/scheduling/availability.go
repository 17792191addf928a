package scheduling

import "time"

type AvailabilityInput struct {
	BranchID          uint
	AppointmentTypeID uint
	Date              time.Time
}

type AvailableTime struct {
	Time string `json:"time"`
}
