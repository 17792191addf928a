package scheduling

import (
	"context"

	"github.com/veltagrid/appointments-api/internal/audit"
	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/timezone"
)

type CompleteAppointment struct {
	repo   domain.Repository
	audit  Auditor
	notify Notifier
}

func NewCompleteAppointment(
	repo domain.Repository,
	auditor Auditor,
	notifier Notifier,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:   repo,
		audit:  auditor,
		notify: notifier,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorUserID *uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	branch, err := uc.repo.GetBranch(ctx, ap.BranchID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(branch.Timezone)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, httperr.ErrDependency("update_failed")
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: ap.BranchID,
		UserID:   actorUserID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.notify.AppointmentCompleted(ctx, ap)

	return ap, nil
}
