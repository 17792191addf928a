package scheduling

import (
	"strings"
	"time"

	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return httperr.ErrValidation("cancel_reason_required")
	}

	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelReason = reason
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// SoftDelete hides the appointment from default listings without touching
// its status history.
func SoftDelete(ap *models.Appointment) {
	ap.IsActive = false
}
