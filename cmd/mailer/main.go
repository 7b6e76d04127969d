// The mailer consumes the notification queue and sends a confirmation email
// for every appointment the API enqueues. It runs as its own process so mail
// delivery never sits on the request path.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"visitdesk-backend/infrastructure/config"
	"visitdesk-backend/infrastructure/di"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.MailAPIKey == "" {
		log.Fatal("MAIL_API_KEY is required for the mailer")
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		container.Logger.Info("Shutting down mailer...")
		cancel()
	}()

	if err := container.MailConsumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		container.Logger.Fatal("Mailer stopped", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Mailer stopped")
}
