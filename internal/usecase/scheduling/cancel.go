package scheduling

import (
	"context"

	"github.com/veltagrid/appointments-api/internal/audit"
	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/timezone"
)

type CancelAppointment struct {
	repo   domain.Repository
	audit  Auditor
	notify Notifier
}

func NewCancelAppointment(
	repo domain.Repository,
	auditor Auditor,
	notifier Notifier,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		audit:  auditor,
		notify: notifier,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	reason string,
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
	if err := domain.Cancel(ap, reason, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, httperr.ErrDependency("update_failed")
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: ap.BranchID,
		UserID:   actorUserID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"reason": reason},
	})

	uc.notify.AppointmentCancelled(ctx, ap)

	return ap, nil
}
