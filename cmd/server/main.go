package main

import (
	"context"
	"log"
	"time"

	"unitask-api/internal/ai"
	"unitask-api/internal/calendar"
	"unitask-api/internal/config"
	"unitask-api/internal/database"
	"unitask-api/internal/digest"
	"unitask-api/internal/email"
	"unitask-api/internal/github"
	"unitask-api/internal/handlers"
	"unitask-api/internal/notify"
	"unitask-api/internal/routes"
)

func main() {
	cfg := config.Load()

	// Init database
	database.InitDB(cfg.Database.Path)

	// Outbound email is optional; without SMTP config the notification and
	// digest paths simply skip sending.
	var emailSvc email.Service
	if cfg.SMTP.Configured() {
		emailSvc = email.NewSMTPService(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		notify.SetEmailService(emailSvc)
	} else {
		log.Println("SMTP not configured; email delivery disabled")
	}

	handlers.SetUploadDir(cfg.Upload.Dir)
	handlers.SetAIClient(ai.NewClient(cfg.AI.APIKey, cfg.AI.Model))
	handlers.SetCalendarProvider(calendar.NewGoogleProvider(calendar.Config{
		ClientID:     cfg.Calendar.ClientID,
		ClientSecret: cfg.Calendar.ClientSecret,
		RedirectURL:  cfg.Calendar.RedirectURL,
	}))

	// Digest scheduler runs for the life of the process
	if emailSvc != nil {
		loc, err := time.LoadLocation(cfg.Digest.Timezone)
		if err != nil {
			log.Printf("Unknown digest timezone %q, using local time", cfg.Digest.Timezone)
			loc = time.Local
		}
		scheduler := digest.NewScheduler(database.GetDB(), emailSvc, github.NewClient(cfg.Github.Token), loc)
		go scheduler.Run(context.Background())
	}

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes()

	// Start server
	port := ":" + cfg.Server.Port
	log.Printf("Server starting on port %s", port)

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
