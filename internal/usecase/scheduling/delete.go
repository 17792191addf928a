package scheduling

import (
	"context"

	"github.com/veltagrid/appointments-api/internal/audit"
	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
)

// DeleteAppointment soft-deletes: the row survives for audit and history
// queries, default listings skip it.
type DeleteAppointment struct {
	repo  domain.Repository
	audit Auditor
}

func NewDeleteAppointment(
	repo domain.Repository,
	auditor Auditor,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: auditor,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorUserID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	domain.SoftDelete(ap)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, httperr.ErrDependency("update_failed")
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: ap.BranchID,
		UserID:   actorUserID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
