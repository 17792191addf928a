package scheduling

import (
	"context"
	"time"

	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/dto"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists one branch day. appointmentTypeIDs narrows the result to
// the types assigned to the requesting staff user; empty means all types.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	branchID uint,
	date time.Time,
	appointmentTypeIDs []uint,
) ([]dto.AppointmentListDTO, error) {

	branch, err := uc.repo.GetBranch(ctx, branchID)
	if err != nil {
		return nil, httperr.ErrNotFound("branch_not_found")
	}

	loc := timezone.Location(branch.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.Add(24 * time.Hour)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		branchID,
		appointmentTypeIDs,
		start,
		end,
	)
	if err != nil {
		return nil, httperr.ErrDependency("listing_failed")
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:                ap.ID,
			AppointmentNumber: ap.AppointmentNumber,
			AppointmentDate:   ap.AppointmentDate,
			Status:            ap.Status,
			ClientName:        ap.Client.Name,
			TypeName:          ap.AppointmentType.Name,
		})
	}

	return out, nil
}
