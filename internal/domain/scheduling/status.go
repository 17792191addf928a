package scheduling

import "github.com/veltagrid/appointments-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Transition rules
// ===============================

// CanConfirm: only a pending appointment can be confirmed.
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

// CanCancel: completed and already-cancelled appointments stay put.
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

// CanComplete: an appointment must be confirmed before it can be closed out.
func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
