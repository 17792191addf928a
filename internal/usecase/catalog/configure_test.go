package catalog

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veltagrid/appointments-api/internal/audit"
	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
)

// catalogRepoStub carries only the catalog side of the repository, the
// scheduling methods are never reached from these use cases.
type catalogRepoStub struct {
	branch *models.Branch
	atype  *models.AppointmentType
	slots  []models.TimeSlot
	nextID uint
}

var _ domain.Repository = (*catalogRepoStub)(nil)

func newCatalogRepoStub() *catalogRepoStub {
	return &catalogRepoStub{
		branch: &models.Branch{ID: 1, Name: "Sede Centro", Code: "centro", Timezone: "America/Bogota", Active: true},
		atype:  &models.AppointmentType{ID: 1, Name: "Revisión de medidor", Active: true},
	}
}

func (r *catalogRepoStub) GetBranch(ctx context.Context, id uint) (*models.Branch, error) {
	if r.branch == nil || r.branch.ID != id {
		return nil, httperr.ErrNotFound("branch_not_found")
	}
	return r.branch, nil
}

func (r *catalogRepoStub) GetAppointmentType(ctx context.Context, id uint) (*models.AppointmentType, error) {
	if r.atype == nil || r.atype.ID != id {
		return nil, httperr.ErrNotFound("appointment_type_not_found")
	}
	return r.atype, nil
}

func (r *catalogRepoStub) ListCatalogSlots(ctx context.Context, branchID, typeID uint) ([]models.TimeSlot, error) {
	out := make([]models.TimeSlot, len(r.slots))
	copy(out, r.slots)
	return out, nil
}

func (r *catalogRepoStub) ListActiveSlots(ctx context.Context, branchID, typeID uint) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range r.slots {
		if s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (r *catalogRepoStub) CreateSlot(ctx context.Context, slot *models.TimeSlot) error {
	r.nextID++
	slot.ID = r.nextID
	r.slots = append(r.slots, *slot)
	return nil
}

func (r *catalogRepoStub) SetSlotActive(ctx context.Context, slotID uint, active bool) error {
	for i := range r.slots {
		if r.slots[i].ID == slotID {
			r.slots[i].Active = active
			return nil
		}
	}
	return httperr.ErrNotFound("slot_not_found")
}

func (r *catalogRepoStub) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	return nil, nil
}

func (r *catalogRepoStub) GetOrCreateClient(ctx context.Context, name, phone, email string) (*models.Client, error) {
	return nil, nil
}

func (r *catalogRepoStub) IsHoliday(ctx context.Context, date time.Time, branchID uint) (bool, error) {
	return false, nil
}

func (r *catalogRepoStub) ListHolidays(ctx context.Context, start, end time.Time) ([]models.Holiday, error) {
	return nil, nil
}

func (r *catalogRepoStub) CountBookedTimes(ctx context.Context, branchID, typeID uint, dayStart, dayEnd time.Time) (map[string]int, error) {
	return nil, nil
}

func (r *catalogRepoStub) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	return nil
}

func (r *catalogRepoStub) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	return nil, nil
}

func (r *catalogRepoStub) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return nil
}

func (r *catalogRepoStub) ListAppointmentsForPeriod(ctx context.Context, branchID uint, typeIDs []uint, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

type auditStub struct {
	events []audit.Event
}

func (a *auditStub) Dispatch(ev audit.Event) {
	a.events = append(a.events, ev)
}

func activeTimes(slots []models.TimeSlot) []string {
	var out []string
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}

// ------------------------------------------------------

func TestConfigureSlots_CreatesNewSet(t *testing.T) {
	repo := newCatalogRepoStub()
	auditor := &auditStub{}
	uc := NewConfigureSlots(repo, auditor)

	out, err := uc.Execute(context.Background(), 1, 1, []string{"14:00", "09:00", "10:30"}, nil)

	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "10:30", "14:00"}, activeTimes(out))

	require.Len(t, auditor.events, 1)
	require.Equal(t, "time_catalog_configured", auditor.events[0].Action)
}

func TestConfigureSlots_DeactivatesDropped(t *testing.T) {
	repo := newCatalogRepoStub()
	uc := NewConfigureSlots(repo, &auditStub{})

	_, err := uc.Execute(context.Background(), 1, 1, []string{"09:00", "10:30"}, nil)
	require.NoError(t, err)

	out, err := uc.Execute(context.Background(), 1, 1, []string{"09:00"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"09:00"}, activeTimes(out))

	// The dropped slot row survives, deactivated.
	require.Len(t, repo.slots, 2)
}

func TestConfigureSlots_ReactivatesExisting(t *testing.T) {
	repo := newCatalogRepoStub()
	uc := NewConfigureSlots(repo, &auditStub{})

	_, err := uc.Execute(context.Background(), 1, 1, []string{"09:00", "10:30"}, nil)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), 1, 1, []string{"09:00"}, nil)
	require.NoError(t, err)

	out, err := uc.Execute(context.Background(), 1, 1, []string{"09:00", "10:30"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "10:30"}, activeTimes(out))

	// Reactivation reuses the row instead of inserting a twin.
	require.Len(t, repo.slots, 2)
}

func TestConfigureSlots_Idempotent(t *testing.T) {
	repo := newCatalogRepoStub()
	uc := NewConfigureSlots(repo, &auditStub{})

	_, err := uc.Execute(context.Background(), 1, 1, []string{"09:00", "10:30"}, nil)
	require.NoError(t, err)

	out, err := uc.Execute(context.Background(), 1, 1, []string{"10:30", "09:00"}, nil)
	require.NoError(t, err)

	require.Equal(t, []string{"09:00", "10:30"}, activeTimes(out))
	require.Len(t, repo.slots, 2)
}

func TestConfigureSlots_EmptySet(t *testing.T) {
	uc := NewConfigureSlots(newCatalogRepoStub(), &auditStub{})

	_, err := uc.Execute(context.Background(), 1, 1, nil, nil)
	require.True(t, httperr.IsBusiness(err, "empty_slot_set"))
}

func TestConfigureSlots_BadTimeFormat(t *testing.T) {
	uc := NewConfigureSlots(newCatalogRepoStub(), &auditStub{})

	for _, hm := range []string{"9:00", "09:0", "25:00", "09:61", "0900"} {
		_, err := uc.Execute(context.Background(), 1, 1, []string{hm}, nil)
		require.True(t, httperr.IsBusiness(err, "invalid_time_format"), "time %q", hm)
	}
}

// brokenCatalogRepo simulates the branch directory being unreachable.
type brokenCatalogRepo struct {
	*catalogRepoStub
}

func (r *brokenCatalogRepo) GetBranch(ctx context.Context, id uint) (*models.Branch, error) {
	return nil, httperr.ErrDependency("storage_error")
}

func TestConfigureSlots_StorageOutageIsNotNotFound(t *testing.T) {
	repo := &brokenCatalogRepo{catalogRepoStub: newCatalogRepoStub()}
	uc := NewConfigureSlots(repo, &auditStub{})

	_, err := uc.Execute(context.Background(), 1, 1, []string{"09:00"}, nil)

	kind, ok := httperr.BusinessKind(err)
	require.True(t, ok)
	require.Equal(t, httperr.KindDependency, kind)
}

func TestGetSlots(t *testing.T) {
	repo := newCatalogRepoStub()
	uc := NewConfigureSlots(repo, &auditStub{})

	_, err := uc.Execute(context.Background(), 1, 1, []string{"09:00", "10:30"}, nil)
	require.NoError(t, err)

	out, err := NewGetSlots(repo).Execute(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "10:30"}, activeTimes(out))
}
