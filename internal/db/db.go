package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/config"
	"github.com/veltagrid/appointments-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Branch{},
		&models.AppointmentType{},
		&models.User{},
		&models.UserAppointmentType{},
		&models.TimeSlot{},
		&models.Holiday{},
		&models.Client{},
		&models.Appointment{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// AutoMigrate cannot express partial indexes, so the two invariants
	// that must hold at the storage layer are created by hand:
	// one active, non-cancelled appointment per slot, and one holiday
	// per (date, branch scope).
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_open_slot
        ON appointments (branch_id, appointment_type_id, appointment_date)
        WHERE is_active AND status <> 'cancelled'
    `)

	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_date_scope
        ON holidays (date, COALESCE(branch_id, 0))
    `)

	db.Exec(`
        UPDATE branches
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.DefaultTimezone)

	return db
}
