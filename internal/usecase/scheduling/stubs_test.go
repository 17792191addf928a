package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/veltagrid/appointments-api/internal/audit"
	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/validators"
)

// repoStub is an in-memory stand-in for the gorm repository. It mirrors
// the storage-level slot uniqueness rule, guarded by a mutex, so the
// booking race can be exercised without a database.
type repoStub struct {
	mu sync.Mutex

	branches    map[uint]*models.Branch
	types       map[uint]*models.AppointmentType
	clients     map[uint]*models.Client
	holidays    map[string]bool
	holidayRows []models.Holiday
	slots       []models.TimeSlot

	appointments []*models.Appointment

	nextClientID      uint
	nextSlotID        uint
	nextHolidayID     uint
	nextAppointmentID uint
}

var _ domain.Repository = (*repoStub)(nil)

func newRepoStub() *repoStub {
	return &repoStub{
		branches: map[uint]*models.Branch{},
		types:    map[uint]*models.AppointmentType{},
		clients:  map[uint]*models.Client{},
		holidays: map[string]bool{},
	}
}

func (r *repoStub) addBranch(id uint, tz string, active bool) {
	r.branches[id] = &models.Branch{ID: id, Name: "Sede Centro", Code: "centro", Timezone: tz, Active: active}
}

func (r *repoStub) addType(id uint, active bool) {
	r.types[id] = &models.AppointmentType{ID: id, Name: "Revisión de medidor", Active: active}
}

func (r *repoStub) addHoliday(branchID *uint, dateStr, name string) {
	date, _ := time.Parse(validators.DateLayout, dateStr)
	r.nextHolidayID++
	r.holidayRows = append(r.holidayRows, models.Holiday{
		ID:       r.nextHolidayID,
		BranchID: branchID,
		Date:     date,
		Name:     name,
	})
	r.holidays[dateStr] = true
}

func (r *repoStub) addSlot(branchID, typeID uint, hm string, active bool) {
	r.nextSlotID++
	r.slots = append(r.slots, models.TimeSlot{
		ID:                r.nextSlotID,
		BranchID:          branchID,
		AppointmentTypeID: typeID,
		Time:              hm,
		Active:            active,
	})
}

func (r *repoStub) GetBranch(ctx context.Context, id uint) (*models.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, httperr.ErrNotFound("branch_not_found")
	}
	return b, nil
}

func (r *repoStub) GetAppointmentType(ctx context.Context, id uint) (*models.AppointmentType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, httperr.ErrNotFound("appointment_type_not_found")
	}
	return t, nil
}

func (r *repoStub) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, httperr.ErrNotFound("client_not_found")
	}
	return c, nil
}

func (r *repoStub) GetOrCreateClient(ctx context.Context, name, phone, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.clients {
		if c.Phone == phone {
			return c, nil
		}
	}
	r.nextClientID++
	c := &models.Client{ID: r.nextClientID, Name: name, Phone: phone, Email: email}
	r.clients[c.ID] = c
	return c, nil
}

func (r *repoStub) IsHoliday(ctx context.Context, date time.Time, branchID uint) (bool, error) {
	return r.holidays[date.Format(validators.DateLayout)], nil
}

func (r *repoStub) ListHolidays(ctx context.Context, start, end time.Time) ([]models.Holiday, error) {
	var out []models.Holiday
	for _, h := range r.holidayRows {
		if h.Date.Before(start) || h.Date.After(end) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *repoStub) ListActiveSlots(ctx context.Context, branchID, typeID uint) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range r.slots {
		if s.BranchID == branchID && s.AppointmentTypeID == typeID && s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (r *repoStub) ListCatalogSlots(ctx context.Context, branchID, typeID uint) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, s := range r.slots {
		if s.BranchID == branchID && s.AppointmentTypeID == typeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *repoStub) CreateSlot(ctx context.Context, slot *models.TimeSlot) error {
	r.nextSlotID++
	slot.ID = r.nextSlotID
	r.slots = append(r.slots, *slot)
	return nil
}

func (r *repoStub) SetSlotActive(ctx context.Context, slotID uint, active bool) error {
	for i := range r.slots {
		if r.slots[i].ID == slotID {
			r.slots[i].Active = active
			return nil
		}
	}
	return httperr.ErrNotFound("slot_not_found")
}

func (r *repoStub) CountBookedTimes(ctx context.Context, branchID, typeID uint, dayStart, dayEnd time.Time) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := map[string]int{}
	for _, ap := range r.appointments {
		if ap.BranchID != branchID || ap.AppointmentTypeID != typeID {
			continue
		}
		if !ap.IsActive || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.AppointmentDate.Before(dayStart) || !ap.AppointmentDate.Before(dayEnd) {
			continue
		}
		out[ap.AppointmentDate.In(dayStart.Location()).Format(validators.TimeLayout)]++
	}
	return out, nil
}

func (r *repoStub) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.appointments {
		if other.BranchID == ap.BranchID &&
			other.AppointmentTypeID == ap.AppointmentTypeID &&
			other.AppointmentDate.Equal(ap.AppointmentDate) &&
			other.IsActive &&
			other.Status != string(domain.StatusCancelled) {
			return httperr.ErrConflict("slot_conflict")
		}
	}
	r.nextAppointmentID++
	ap.ID = r.nextAppointmentID
	r.appointments = append(r.appointments, ap)
	return nil
}

func (r *repoStub) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ap := range r.appointments {
		if ap.ID == id && ap.IsActive {
			return ap, nil
		}
	}
	return nil, httperr.ErrNotFound("appointment_not_found")
}

func (r *repoStub) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, other := range r.appointments {
		if other.ID == ap.ID {
			r.appointments[i] = ap
			return nil
		}
	}
	return httperr.ErrNotFound("appointment_not_found")
}

func (r *repoStub) ListAppointmentsForPeriod(ctx context.Context, branchID uint, typeIDs []uint, start, end time.Time) ([]models.Appointment, error) {
	allowed := map[uint]bool{}
	for _, id := range typeIDs {
		allowed[id] = true
	}

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.BranchID != branchID || !ap.IsActive {
			continue
		}
		if len(typeIDs) > 0 && !allowed[ap.AppointmentTypeID] {
			continue
		}
		if ap.AppointmentDate.Before(start) || !ap.AppointmentDate.Before(end) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func bookedAt(day time.Time, hour, min int) *models.Appointment {
	return &models.Appointment{
		BranchID:          1,
		AppointmentTypeID: 1,
		AppointmentDate:   time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location()),
		Status:            string(domain.StatusPending),
		IsActive:          true,
	}
}

// ------------------------------------------------------

type auditStub struct {
	events []audit.Event
}

func (a *auditStub) Dispatch(ev audit.Event) {
	a.events = append(a.events, ev)
}

type notifyStub struct {
	created   int
	confirmed int
	cancelled int
	completed int
}

func (n *notifyStub) AppointmentCreated(ctx context.Context, ap *models.Appointment)   { n.created++ }
func (n *notifyStub) AppointmentConfirmed(ctx context.Context, ap *models.Appointment) { n.confirmed++ }
func (n *notifyStub) AppointmentCancelled(ctx context.Context, ap *models.Appointment) { n.cancelled++ }
func (n *notifyStub) AppointmentCompleted(ctx context.Context, ap *models.Appointment) { n.completed++ }
