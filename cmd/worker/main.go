package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"carelink-backend/shared/config"
	"carelink-backend/shared/mail"
	"carelink-backend/shared/tasks"
)

func main() {
	log.Println("📬 Starting portal worker...")

	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	mailer := mail.NewMailer(cfg)

	srv := asynq.NewServer(tasks.RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.GetWorkerConcurrency(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeInviteEmail, func(ctx context.Context, t *asynq.Task) error {
		var payload tasks.InviteEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}

		msg := mail.Message{
			To:      []string{payload.Email},
			Subject: "You're invited to join " + payload.OrganizationName + " on CareLink",
			Body:    mail.InviteBody(payload.FullName, payload.OrganizationName, payload.InviterEmail, payload.Message),
		}
		if err := mailer.Send(msg); err != nil {
			log.Printf("❌ Invite email to %s failed: %v", payload.Email, err)
			return err
		}

		log.Printf("✅ Invite email sent to %s (invite %s)", payload.Email, payload.InviteID)
		return nil
	})

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down worker...")
		srv.Shutdown()
	}()

	log.Printf("Worker started with concurrency %d, waiting for tasks...", cfg.GetWorkerConcurrency())

	if err := srv.Run(mux); err != nil {
		log.Fatalf("Worker error: %v", err)
	}

	log.Println("Worker stopped")
}
