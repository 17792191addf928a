package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
)

func bogota(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	return loc
}

func availabilityFixture(t *testing.T) (*repoStub, *GetAvailability) {
	t.Helper()

	repo := newRepoStub()
	repo.addBranch(1, "America/Bogota", true)
	repo.addType(1, true)
	repo.addSlot(1, 1, "09:00", true)
	repo.addSlot(1, 1, "10:30", true)
	repo.addSlot(1, 1, "14:00", true)

	uc := NewGetAvailability(repo)
	uc.Now = func() time.Time {
		return time.Date(2026, 8, 28, 10, 0, 0, 0, bogota(t))
	}
	return repo, uc
}

func times(out []domain.AvailableTime) []string {
	var hm []string
	for _, a := range out {
		hm = append(hm, a.Time)
	}
	return hm
}

func TestGetAvailability_FutureDayReturnsAllSlots(t *testing.T) {
	_, uc := availabilityFixture(t)

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 1,
		Date:              time.Date(2026, 8, 29, 0, 0, 0, 0, bogota(t)),
	})

	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "10:30", "14:00"}, times(out))
}

func TestGetAvailability_BookedSlotIsExcluded(t *testing.T) {
	repo, uc := availabilityFixture(t)

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, bogota(t))
	require.NoError(t, repo.CreateAppointment(context.Background(), bookedAt(day, 10, 30)))

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 1,
		Date:              day,
	})

	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "14:00"}, times(out))
}

func TestGetAvailability_CancelledBookingFreesSlot(t *testing.T) {
	repo, uc := availabilityFixture(t)

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, bogota(t))
	ap := bookedAt(day, 10, 30)
	ap.Status = string(domain.StatusCancelled)
	require.NoError(t, repo.CreateAppointment(context.Background(), ap))

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 1,
		Date:              day,
	})

	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "10:30", "14:00"}, times(out))
}

func TestGetAvailability_TodaySkipsPastTimes(t *testing.T) {
	_, uc := availabilityFixture(t)

	// Now is pinned at 10:00, so 09:00 is gone and 10:30 survives.
	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 1,
		Date:              time.Date(2026, 8, 28, 0, 0, 0, 0, bogota(t)),
	})

	require.NoError(t, err)
	require.Equal(t, []string{"10:30", "14:00"}, times(out))
}

func TestGetAvailability_PastDayIsEmpty(t *testing.T) {
	_, uc := availabilityFixture(t)

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 1,
		Date:              time.Date(2026, 8, 27, 0, 0, 0, 0, bogota(t)),
	})

	require.NoError(t, err)
	require.Empty(t, out)
}

func TestGetAvailability_HolidayIsEmpty(t *testing.T) {
	repo, uc := availabilityFixture(t)
	repo.holidays["2026-08-29"] = true

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 1,
		Date:              time.Date(2026, 8, 29, 0, 0, 0, 0, bogota(t)),
	})

	require.NoError(t, err)
	require.Empty(t, out)
}

func TestGetAvailability_UnknownBranch(t *testing.T) {
	_, uc := availabilityFixture(t)

	_, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          99,
		AppointmentTypeID: 1,
		Date:              time.Date(2026, 8, 29, 0, 0, 0, 0, bogota(t)),
	})

	require.True(t, httperr.IsBusiness(err, "branch_not_found"))
}

func TestGetAvailability_InactiveTypeIsNotFound(t *testing.T) {
	repo, uc := availabilityFixture(t)
	repo.addType(2, false)

	_, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 2,
		Date:              time.Date(2026, 8, 29, 0, 0, 0, 0, bogota(t)),
	})

	require.True(t, httperr.IsBusiness(err, "appointment_type_not_found"))
}

func TestGetAvailability_SoftDeletedBookingFreesSlot(t *testing.T) {
	repo, uc := availabilityFixture(t)

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, bogota(t))
	ap := bookedAt(day, 10, 30)
	require.NoError(t, repo.CreateAppointment(context.Background(), ap))

	_, err := NewDeleteAppointment(repo, &auditStub{}).
		Execute(context.Background(), ap.ID, nil)
	require.NoError(t, err)

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 1,
		Date:              day,
	})

	require.NoError(t, err)
	require.Contains(t, times(out), "10:30")
}

// brokenDirectoryRepo simulates the branch directory being unreachable.
type brokenDirectoryRepo struct {
	*repoStub
}

func (r *brokenDirectoryRepo) GetBranch(ctx context.Context, id uint) (*models.Branch, error) {
	return nil, httperr.ErrDependency("storage_error")
}

func TestGetAvailability_StorageOutageIsNotNotFound(t *testing.T) {
	base, _ := availabilityFixture(t)
	uc := NewGetAvailability(&brokenDirectoryRepo{repoStub: base})

	_, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 1,
		Date:              time.Date(2026, 8, 29, 0, 0, 0, 0, bogota(t)),
	})

	kind, ok := httperr.BusinessKind(err)
	require.True(t, ok)
	require.Equal(t, httperr.KindDependency, kind)
}

func TestGetAvailability_InactiveSlotIsExcluded(t *testing.T) {
	repo, uc := availabilityFixture(t)
	repo.addSlot(1, 1, "16:00", false)

	out, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BranchID:          1,
		AppointmentTypeID: 1,
		Date:              time.Date(2026, 8, 29, 0, 0, 0, 0, bogota(t)),
	})

	require.NoError(t, err)
	require.NotContains(t, times(out), "16:00")
}
