package scheduling

import (
	"context"
	"time"

	"github.com/veltagrid/appointments-api/internal/audit"
	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BranchID          uint
	AppointmentTypeID uint

	// Either an existing client...
	ClientID uint

	// ...or contact data to get-or-create one (public booking).
	ClientName  string
	ClientPhone string
	ClientEmail string

	Date  string // YYYY-MM-DD
	Time  string // HH:mm
	Notes string

	// Staff user acting on behalf of the client, nil for self-service.
	ActorUserID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo         domain.Repository
	availability *GetAvailability
	audit        Auditor
	notify       Notifier

	Now func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	availability *GetAvailability,
	auditor Auditor,
	notifier Notifier,
) *CreateAppointment {
	return &CreateAppointment{
		repo:         repo,
		availability: availability,
		audit:        auditor,
		notify:       notifier,
		Now:          time.Now,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.BranchID == 0 || in.AppointmentTypeID == 0 {
		return nil, httperr.ErrValidation("invalid_reference")
	}
	if in.ClientID == 0 && (in.ClientName == "" || in.ClientPhone == "") {
		return nil, httperr.ErrValidation("client_required")
	}

	branch, err := uc.repo.GetBranch(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.Active {
		return nil, httperr.ErrNotFound("branch_not_found")
	}

	loc := timezone.Location(branch.Timezone)

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time")
	}

	now := uc.Now().In(loc)
	if !start.After(now) {
		return nil, httperr.ErrValidation("date_in_past")
	}

	// Re-run the availability engine for the target day. This is the UX
	// pre-check; the unique index behind CreateAppointment is what
	// actually closes the race.
	times, err := uc.availability.Execute(ctx, domain.AvailabilityInput{
		BranchID:          in.BranchID,
		AppointmentTypeID: in.AppointmentTypeID,
		Date:              start,
	})
	if err != nil {
		return nil, err
	}

	open := false
	for _, t := range times {
		if t.Time == in.Time {
			open = true
			break
		}
	}
	if !open {
		return nil, httperr.ErrConflict("slot_unavailable")
	}

	client, err := uc.resolveClient(ctx, in)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		AppointmentNumber: domain.NewAppointmentNumber(start),
		ClientID:          client.ID,
		BranchID:          in.BranchID,
		AppointmentTypeID: in.AppointmentTypeID,
		AppointmentDate:   start,
		Status:            string(domain.InitialStatus()),
		Notes:             in.Notes,
		IsActive:          true,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BranchID: in.BranchID,
		UserID:   in.ActorUserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	ap.Client = *client
	uc.notify.AppointmentCreated(ctx, ap)

	return ap, nil
}

func (uc *CreateAppointment) resolveClient(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Client, error) {

	if in.ClientID != 0 {
		return uc.repo.GetClient(ctx, in.ClientID)
	}

	return uc.repo.GetOrCreateClient(
		ctx,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
}
