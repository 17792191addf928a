package scheduling

import (
	"context"
	"time"

	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/timezone"
	"github.com/veltagrid/appointments-api/internal/validators"
)

type GetAvailability struct {
	repo domain.Repository

	// Now is swapped out in tests to pin the current-day cutoff.
	Now func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{
		repo: repo,
		Now:  time.Now,
	}
}

// Execute returns the bookable times for (branch, appointment type, date),
// ascending. Holidays and past dates come back as an empty list, not an
// error: an empty day is a valid answer to a read.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.AvailableTime, error) {

	branch, err := uc.repo.GetBranch(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.Active {
		return nil, httperr.ErrNotFound("branch_not_found")
	}

	atype, err := uc.repo.GetAppointmentType(ctx, in.AppointmentTypeID)
	if err != nil {
		return nil, err
	}
	if !atype.Active {
		return nil, httperr.ErrNotFound("appointment_type_not_found")
	}

	loc := timezone.Location(branch.Timezone)
	day := time.Date(
		in.Date.Year(), in.Date.Month(), in.Date.Day(),
		0, 0, 0, 0,
		loc,
	)

	holiday, err := uc.repo.IsHoliday(ctx, day, branch.ID)
	if err != nil {
		return nil, httperr.ErrDependency("holiday_lookup_failed")
	}
	if holiday {
		return []domain.AvailableTime{}, nil
	}

	now := uc.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if day.Before(today) {
		return []domain.AvailableTime{}, nil
	}

	slots, err := uc.repo.ListActiveSlots(ctx, branch.ID, atype.ID)
	if err != nil {
		return nil, httperr.ErrDependency("slot_lookup_failed")
	}

	booked, err := uc.repo.CountBookedTimes(
		ctx,
		branch.ID,
		atype.ID,
		day,
		day.Add(24*time.Hour),
	)
	if err != nil {
		return nil, httperr.ErrDependency("ledger_lookup_failed")
	}

	out := make([]domain.AvailableTime, 0, len(slots))

	for _, slot := range slots {
		hm, err := time.Parse(validators.TimeLayout, slot.Time)
		if err != nil {
			continue
		}

		slotStart := time.Date(
			day.Year(), day.Month(), day.Day(),
			hm.Hour(), hm.Minute(), 0, 0,
			loc,
		)

		// No booking into the past on the current day.
		if day.Equal(today) && !slotStart.After(now) {
			continue
		}

		// Any booked count excludes the slot, even if the ledger ever
		// reported more than one row for it.
		if booked[slot.Time] > 0 {
			continue
		}

		out = append(out, domain.AvailableTime{Time: slot.Time})
	}

	return out, nil
}
