package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/models"
)

// Outbox turns lifecycle events into pending Notification rows. Delivery
// happens out of process (cmd/notifier), so a provider outage can never
// fail or slow down a booking.
type Outbox struct {
	db *gorm.DB
}

func NewOutbox(db *gorm.DB) *Outbox {
	return &Outbox{db: db}
}

func (o *Outbox) AppointmentCreated(ctx context.Context, ap *models.Appointment) {
	o.enqueue(ctx, ap, "received")
}

func (o *Outbox) AppointmentConfirmed(ctx context.Context, ap *models.Appointment) {
	o.enqueue(ctx, ap, "confirmed")
}

func (o *Outbox) AppointmentCancelled(ctx context.Context, ap *models.Appointment) {
	o.enqueue(ctx, ap, "cancelled")
}

func (o *Outbox) AppointmentCompleted(ctx context.Context, ap *models.Appointment) {
	o.enqueue(ctx, ap, "completed")
}

func (o *Outbox) enqueue(ctx context.Context, ap *models.Appointment, status string) {
	client := ap.Client
	if client.ID == 0 {
		if err := o.db.WithContext(ctx).First(&client, ap.ClientID).Error; err != nil {
			log.Printf("notify: client %d not found for appointment %s: %v",
				ap.ClientID, ap.AppointmentNumber, err)
			return
		}
	}

	subject := fmt.Sprintf(
		"Your appointment %s is %s",
		ap.AppointmentNumber,
		status,
	)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your appointment has been %s.\n\n"+
			"Appointment number: %s\n"+
			"Date: %s\n\n"+
			"Thank you.",
		client.Name,
		status,
		ap.AppointmentNumber,
		ap.AppointmentDate.Format("02 Jan 2006 15:04"),
	)

	now := time.Now()

	if client.Email != "" {
		o.insert(ctx, models.Notification{
			AppointmentID: ap.ID,
			Channel:       models.NotificationChannelEmail,
			Recipient:     client.Email,
			Subject:       subject,
			Body:          body,
			Status:        models.NotificationStatusPending,
			NextAttemptAt: now,
		})
	}

	if client.Phone != "" {
		o.insert(ctx, models.Notification{
			AppointmentID: ap.ID,
			Channel:       models.NotificationChannelWhatsApp,
			Recipient:     client.Phone,
			Body:          body,
			Status:        models.NotificationStatusPending,
			NextAttemptAt: now,
		})
	}
}

func (o *Outbox) insert(ctx context.Context, n models.Notification) {
	if err := o.db.WithContext(ctx).Create(&n).Error; err != nil {
		log.Printf("notify: failed to enqueue %s notification for appointment %d: %v",
			n.Channel, n.AppointmentID, err)
	}
}
