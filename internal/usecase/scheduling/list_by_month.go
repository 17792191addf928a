package scheduling

import (
	"context"
	"time"

	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/dto"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	branchID uint,
	year int,
	month int,
	appointmentTypeIDs []uint,
) ([]dto.AppointmentListDTO, error) {

	branch, err := uc.repo.GetBranch(ctx, branchID)
	if err != nil {
		return nil, httperr.ErrNotFound("branch_not_found")
	}

	loc := timezone.Location(branch.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

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
