package scheduling

import (
	"context"

	"github.com/veltagrid/appointments-api/internal/audit"
	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/timezone"
)

type ConfirmAppointment struct {
	repo   domain.Repository
	audit  Auditor
	notify Notifier
}

func NewConfirmAppointment(
	repo domain.Repository,
	auditor Auditor,
	notifier Notifier,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:   repo,
		audit:  auditor,
		notify: notifier,
	}
}

func (uc *ConfirmAppointment) Execute(
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
	if err := domain.Confirm(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, httperr.ErrDependency("update_failed")
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: ap.BranchID,
		UserID:   actorUserID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.notify.AppointmentConfirmed(ctx, ap)

	return ap, nil
}
