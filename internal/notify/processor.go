package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veltagrid/appointments-api/internal/models"
)

const (
	retryBase = time.Minute
	retryCap  = time.Hour
)

// Processor drains the notification outbox: pending rows due for an
// attempt are sent, retried with exponential backoff, and marked failed
// once the attempt limit is reached.
type Processor struct {
	db       *gorm.DB
	email    EmailSender
	whatsapp MessageSender
	logger   *zap.Logger

	maxAttempts int
	batchSize   int
}

func NewProcessor(
	db *gorm.DB,
	email EmailSender,
	whatsapp MessageSender,
	logger *zap.Logger,
	maxAttempts int,
	batchSize int,
) *Processor {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Processor{
		db:          db,
		email:       email,
		whatsapp:    whatsapp,
		logger:      logger,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
	}
}

func (p *Processor) ProcessPending(ctx context.Context) error {
	var pending []models.Notification

	if err := p.db.WithContext(ctx).
		Where(
			"status = ? AND next_attempt_at <= ?",
			models.NotificationStatusPending,
			time.Now(),
		).
		Order("next_attempt_at ASC").
		Limit(p.batchSize).
		Find(&pending).Error; err != nil {
		return err
	}

	for _, n := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.deliver(ctx, n)
	}

	return nil
}

func (p *Processor) deliver(ctx context.Context, n models.Notification) {
	var err error

	switch n.Channel {
	case models.NotificationChannelEmail:
		err = p.email.Send(n.Recipient, n.Subject, n.Body)
	case models.NotificationChannelWhatsApp:
		err = p.whatsapp.Send(n.Recipient, n.Body)
	default:
		p.markFailed(ctx, n, "unknown channel")
		return
	}

	if err == nil {
		now := time.Now()
		p.db.WithContext(ctx).
			Model(&models.Notification{}).
			Where("id = ?", n.ID).
			Updates(map[string]any{
				"status":   models.NotificationStatusSent,
				"attempts": n.Attempts + 1,
				"sent_at":  &now,
			})

		p.logger.Info("notification sent",
			zap.Uint("id", n.ID),
			zap.String("channel", n.Channel),
		)
		return
	}

	attempts := n.Attempts + 1

	if attempts >= p.maxAttempts {
		p.markFailed(ctx, n, err.Error())
		p.logger.Warn("notification failed permanently",
			zap.Uint("id", n.ID),
			zap.String("channel", n.Channel),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return
	}

	p.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{
			"attempts":        attempts,
			"last_error":      err.Error(),
			"next_attempt_at": time.Now().Add(backoff(attempts)),
		})

	p.logger.Info("notification retry scheduled",
		zap.Uint("id", n.ID),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
}

func (p *Processor) markFailed(ctx context.Context, n models.Notification, reason string) {
	p.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", n.ID).
		Updates(map[string]any{
			"status":     models.NotificationStatusFailed,
			"attempts":   n.Attempts + 1,
			"last_error": reason,
		})
}

func backoff(attempts int) time.Duration {
	d := retryBase << uint(attempts-1)
	if d > retryCap {
		return retryCap
	}
	return d
}
