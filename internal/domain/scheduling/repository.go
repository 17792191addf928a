package scheduling

import (
	"context"
	"time"

	"github.com/veltagrid/appointments-api/internal/models"
)

type Repository interface {
	// -------- Directories --------
	GetBranch(
		ctx context.Context,
		id uint,
	) (*models.Branch, error)

	GetAppointmentType(
		ctx context.Context,
		id uint,
	) (*models.AppointmentType, error)

	// -------- Client --------
	GetClient(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	GetOrCreateClient(
		ctx context.Context,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Holiday calendar --------
	IsHoliday(
		ctx context.Context,
		date time.Time,
		branchID uint,
	) (bool, error)

	ListHolidays(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Holiday, error)

	// -------- Time catalog --------
	ListActiveSlots(
		ctx context.Context,
		branchID uint,
		appointmentTypeID uint,
	) ([]models.TimeSlot, error)

	ListCatalogSlots(
		ctx context.Context,
		branchID uint,
		appointmentTypeID uint,
	) ([]models.TimeSlot, error)

	CreateSlot(
		ctx context.Context,
		slot *models.TimeSlot,
	) error

	SetSlotActive(
		ctx context.Context,
		slotID uint,
		active bool,
	) error

	// -------- Booking ledger --------
	CountBookedTimes(
		ctx context.Context,
		branchID uint,
		appointmentTypeID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) (map[string]int, error)

	// CreateAppointment is the atomic check-and-insert: it must fail with
	// a conflict when another active, non-cancelled appointment already
	// occupies the same (branch, type, date) slot.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointmentsForPeriod(
		ctx context.Context,
		branchID uint,
		appointmentTypeIDs []uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
