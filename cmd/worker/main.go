package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"contacts-service/internal/config"
	"contacts-service/internal/mail"
	"contacts-service/internal/worker"
)

func main() {
	godotenv.Load(".env.dev")

	cfg := config.Load()

	sender, err := mail.NewSESSender(context.Background(),
		cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion, cfg.MailFrom, cfg.MailFromName,
	)
	if err != nil {
		log.Fatalf("Failed to initialize SES sender: %v", err)
	}

	w, err := worker.Start(cfg.NatsURL, sender)
	if err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
	defer w.Close()

	log.Println("Mail worker started, waiting for messages...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down mail worker...")
}
