package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/veltagrid/appointments-api/internal/config"
	dbpkg "github.com/veltagrid/appointments-api/internal/db"
	"github.com/veltagrid/appointments-api/internal/notify"
)

func main() {

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := dbpkg.NewDB(cfg)

	email := notify.NewSendGridSender(
		cfg.SendGridAPIKey,
		cfg.SendGridFromEmail,
		cfg.SendGridFromName,
	)

	whatsapp := notify.NewTwilioWhatsAppSender(
		cfg.TwilioAccountSID,
		cfg.TwilioAuthToken,
		cfg.TwilioFromNumber,
	)

	processor := notify.NewProcessor(
		db,
		email,
		whatsapp,
		logger,
		cfg.NotifierMaxAttempts,
		cfg.NotifierBatchSize,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cron.New()

	spec := fmt.Sprintf("@every %s", cfg.NotifierInterval)
	if _, err := c.AddFunc(spec, func() {
		if err := processor.ProcessPending(ctx); err != nil {
			logger.Error("outbox pass failed", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("invalid notifier schedule", zap.String("spec", spec), zap.Error(err))
	}

	logger.Info("notifier started",
		zap.Duration("interval", cfg.NotifierInterval),
		zap.Int("max_attempts", cfg.NotifierMaxAttempts),
		zap.Int("batch_size", cfg.NotifierBatchSize),
	)

	c.Start()

	<-ctx.Done()

	logger.Info("notifier stopping")
	<-c.Stop().Done()
}
