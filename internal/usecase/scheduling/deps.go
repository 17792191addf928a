package scheduling

import (
	"context"

	"github.com/veltagrid/appointments-api/internal/audit"
	"github.com/veltagrid/appointments-api/internal/models"
)

// Auditor is what the use cases need from the audit dispatcher.
type Auditor interface {
	Dispatch(ev audit.Event)
}

// Notifier receives lifecycle events for best-effort delivery. Failures
// here never roll back an appointment change.
type Notifier interface {
	AppointmentCreated(ctx context.Context, ap *models.Appointment)
	AppointmentConfirmed(ctx context.Context, ap *models.Appointment)
	AppointmentCancelled(ctx context.Context, ap *models.Appointment)
	AppointmentCompleted(ctx context.Context, ap *models.Appointment)
}
