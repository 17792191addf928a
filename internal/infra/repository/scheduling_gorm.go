package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/veltagrid/appointments-api/internal/domain/scheduling"
	"github.com/veltagrid/appointments-api/internal/httperr"
	"github.com/veltagrid/appointments-api/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// lookupErr keeps the error taxonomy honest at the storage boundary: a
// missing row is not-found, anything else (outage, bad connection) is a
// retryable dependency failure.
func lookupErr(err error, notFoundCode string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(notFoundCode)
	}
	return httperr.ErrDependency("storage_error")
}

// --------------------------------------------------
// Directories
// --------------------------------------------------

func (r *SchedulingGormRepository) GetBranch(
	ctx context.Context,
	id uint,
) (*models.Branch, error) {

	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, id).Error; err != nil {
		return nil, lookupErr(err, "branch_not_found")
	}
	return &branch, nil
}

func (r *SchedulingGormRepository) GetAppointmentType(
	ctx context.Context,
	id uint,
) (*models.AppointmentType, error) {

	var atype models.AppointmentType
	if err := r.db.WithContext(ctx).First(&atype, id).Error; err != nil {
		return nil, lookupErr(err, "appointment_type_not_found")
	}
	return &atype, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *SchedulingGormRepository) GetClient(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, lookupErr(err, "client_not_found")
	}
	return &client, nil
}

func (r *SchedulingGormRepository) GetOrCreateClient(
	ctx context.Context,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrDependency("storage_error")
	}

	client = models.Client{
		Name:  name,
		Phone: phone,
		Email: email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Holiday calendar
// --------------------------------------------------

func (r *SchedulingGormRepository) IsHoliday(
	ctx context.Context,
	date time.Time,
	branchID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Holiday{}).
		Where(
			"date = ? AND (branch_id IS NULL OR branch_id = ?)",
			date.Format("2006-01-02"),
			branchID,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *SchedulingGormRepository) ListHolidays(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Holiday, error) {

	var holidays []models.Holiday
	if err := r.db.WithContext(ctx).
		Where(
			"date >= ? AND date <= ?",
			start.Format("2006-01-02"),
			end.Format("2006-01-02"),
		).
		Order("date ASC").
		Find(&holidays).Error; err != nil {
		return nil, err
	}

	return holidays, nil
}

// --------------------------------------------------
// Time catalog
// --------------------------------------------------

func (r *SchedulingGormRepository) ListActiveSlots(
	ctx context.Context,
	branchID uint,
	appointmentTypeID uint,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where(
			"branch_id = ? AND appointment_type_id = ? AND active = true",
			branchID, appointmentTypeID,
		).
		Order("time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *SchedulingGormRepository) ListCatalogSlots(
	ctx context.Context,
	branchID uint,
	appointmentTypeID uint,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where(
			"branch_id = ? AND appointment_type_id = ?",
			branchID, appointmentTypeID,
		).
		Order("time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *SchedulingGormRepository) CreateSlot(
	ctx context.Context,
	slot *models.TimeSlot,
) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *SchedulingGormRepository) SetSlotActive(
	ctx context.Context,
	slotID uint,
	active bool,
) error {
	return r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("id = ?", slotID).
		Update("active", active).Error
}

// --------------------------------------------------
// Booking ledger
// --------------------------------------------------

func (r *SchedulingGormRepository) CountBookedTimes(
	ctx context.Context,
	branchID uint,
	appointmentTypeID uint,
	dayStart time.Time,
	dayEnd time.Time,
) (map[string]int, error) {

	var appointments []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("appointment_date").
		Where(
			"branch_id = ? AND appointment_type_id = ? AND is_active = true AND status <> ? AND appointment_date >= ? AND appointment_date < ?",
			branchID,
			appointmentTypeID,
			string(domain.StatusCancelled),
			dayStart,
			dayEnd,
		).
		Find(&appointments).Error; err != nil {
		return nil, err
	}

	booked := make(map[string]int, len(appointments))
	for _, ap := range appointments {
		booked[ap.AppointmentDate.In(dayStart.Location()).Format("15:04")]++
	}

	return booked, nil
}

// CreateAppointment holds a row lock over conflicting rows, then inserts.
// The partial unique index on (branch, type, date) is the backstop for
// two inserts that both saw an empty lock set.
func (r *SchedulingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"branch_id = ? AND appointment_type_id = ? AND appointment_date = ? AND is_active = true AND status <> ?",
				ap.BranchID,
				ap.AppointmentTypeID,
				ap.AppointmentDate,
				string(domain.StatusCancelled),
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrConflict("slot_conflict")
		}

		return tx.Create(ap).Error
	})

	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrConflict("slot_conflict")
		}
		return err
	}

	return nil
}

// --------------------------------------------------
// Appointment (state changes / listings)
// --------------------------------------------------

func (r *SchedulingGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = true", id).
		First(&ap).Error; err != nil {
		return nil, lookupErr(err, "appointment_not_found")
	}

	return &ap, nil
}

func (r *SchedulingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *SchedulingGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	branchID uint,
	appointmentTypeIDs []uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("AppointmentType").
		Where(
			"branch_id = ? AND is_active = true AND appointment_date >= ? AND appointment_date < ?",
			branchID,
			start,
			end,
		)

	if len(appointmentTypeIDs) > 0 {
		q = q.Where("appointment_type_id IN ?", appointmentTypeIDs)
	}

	var appointments []models.Appointment
	if err := q.Order("appointment_date ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}

	return appointments, nil
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
