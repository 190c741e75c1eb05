package email

import (
	"time"

	"unitask-api/internal/models"
)

// Service defines the interface for sending emails.
type Service interface {
	Send(to, subject, htmlBody string) error
}

// DailyDigestData carries the data rendered into a daily digest email.
type DailyDigestData struct {
	Name         string
	TodoCount    int
	OverdueCount int
	UrgentTasks  []models.Task
	Date         time.Time
}

// GroupProgress summarizes one group for the weekly digest.
type GroupProgress struct {
	Name           string
	Progress       int
	CompletedTasks int
	TotalTasks     int
}

// WeeklyDigestData carries the data rendered into a weekly digest email.
type WeeklyDigestData struct {
	Name              string
	Groups            []GroupProgress
	CompletedThisWeek int
	TotalCommits      int
	Date              time.Time
}
