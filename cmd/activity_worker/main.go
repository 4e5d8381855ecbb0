package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/task-tracker-api/config"
	"github.com/oksasatya/task-tracker-api/pkg/helpers"
	"github.com/oksasatya/task-tracker-api/pkg/mailer"
)

// activity_worker consumes task events and emails owners about changes made
// by other users.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-activity-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; activity worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQActivityQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQActivityQueue, 16)
	if err != nil {
		log.Fatalf("amqp consume: %v", err)
	}

	notifier := &mailer.ActivityNotifier{
		Sender:  mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		AppName: cfg.AppName,
		Logger:  logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})

	retry := helpers.NewBackoff(time.Second, 30*time.Second)
	go func() {
		defer close(done)
		for msg := range consumer.Deliveries {
			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			_, err := notifier.Handle(c, msg.Body)
			cancel()
			switch {
			case err == nil:
				retry.Reset()
				_ = msg.Ack(false)
			case errors.Is(err, mailer.ErrBadEvent):
				logger.WithError(err).Warn("dropping task event")
				_ = msg.Nack(false, false)
			default:
				logger.WithError(err).Error("activity email failed")
				// Requeue after the delay, or at once when shutting down.
				_ = retry.Wait(ctx)
				_ = msg.Nack(false, true)
			}
		}
	}()

	logger.Infof("activity worker listening on queue=%s", cfg.RabbitMQActivityQueue)
	<-ctx.Done()
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
