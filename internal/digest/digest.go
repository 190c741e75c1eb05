// Package digest aggregates each user's outstanding work and team progress
// into scheduled summary emails.
package digest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"unitask-api/internal/cache"
	"unitask-api/internal/email"
	"unitask-api/internal/github"
	"unitask-api/internal/models"

	"gorm.io/gorm"
)

// Scheduler drives the daily and weekly digest jobs. Both jobs are
// best-effort per user: a failure for one user is logged and the batch
// continues.
type Scheduler struct {
	DB       *gorm.DB
	Email    email.Service
	Github   *github.Client
	Location *time.Location

	// statsCache avoids refetching commit stats for a repo shared by
	// several users within one weekly batch.
	statsCache *cache.SimpleCache[string, map[string]int]

	lastDaily  string
	lastWeekly string
}

// NewScheduler builds a scheduler in the given timezone.
func NewScheduler(db *gorm.DB, svc email.Service, gh *github.Client, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		DB:       db,
		Email:    svc,
		Github:   gh,
		Location: loc,
		statsCache: cache.NewSimpleCache[string, map[string]int](cache.Options{
			ConcurrencySafe: true,
		}),
	}
}

// Run ticks once a minute and fires the daily job at 08:00 local time and
// the weekly job on Mondays at 09:00, each at most once per slot. Blocks
// until ctx is cancelled; start it in a goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	slog.Info("digest scheduler started", "timezone", s.Location.String())

	for {
		select {
		case <-ctx.Done():
			slog.Info("digest scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx, time.Now().In(s.Location))
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	day := now.Format("2006-01-02")

	if now.Hour() == 8 && now.Minute() == 0 && s.lastDaily != day {
		s.lastDaily = day
		s.RunDaily(ctx, now)
	}
	if now.Weekday() == time.Monday && now.Hour() == 9 && now.Minute() == 0 && s.lastWeekly != day {
		s.lastWeekly = day
		s.RunWeekly(ctx, now)
	}
}

// RunDaily sends a daily digest to every user opted into daily digests.
func (s *Scheduler) RunDaily(ctx context.Context, now time.Time) {
	slog.Info("running daily digest job")

	var users []models.User
	if err := s.DB.Where("email_digest_enabled = ? AND email_digest_frequency = ?", true, models.DigestDaily).
		Find(&users).Error; err != nil {
		slog.Error("daily digest: listing users failed", "err", err)
		return
	}

	for _, user := range users {
		if err := s.sendDaily(user, now); err != nil {
			slog.Error("daily digest failed for user", "email", user.Email, "err", err)
		}
	}
}

// BuildDaily computes a user's daily digest: open task count, overdue count
// (deadline before the start of today), and up to 5 urgent tasks due today
// or earlier.
func (s *Scheduler) BuildDaily(user models.User, now time.Time) (email.DailyDigestData, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24*time.Hour - time.Nanosecond)

	var tasks []models.Task
	if err := s.DB.Where("assignee_id = ? AND status <> ?", user.ID, models.StatusDone).
		Find(&tasks).Error; err != nil {
		return email.DailyDigestData{}, err
	}

	data := email.DailyDigestData{
		Name:      user.Name,
		TodoCount: len(tasks),
		Date:      now,
	}
	for _, t := range tasks {
		if t.Deadline == nil {
			continue
		}
		if t.Deadline.Before(startOfDay) {
			data.OverdueCount++
		}
		if !t.Deadline.After(endOfDay) && len(data.UrgentTasks) < 5 {
			data.UrgentTasks = append(data.UrgentTasks, t)
		}
	}
	return data, nil
}

func (s *Scheduler) sendDaily(user models.User, now time.Time) error {
	data, err := s.BuildDaily(user, now)
	if err != nil {
		return err
	}
	body, err := email.RenderDailyDigest(data)
	if err != nil {
		return err
	}
	subject := "Your Daily Task Summary - " + now.Format("2 Jan 2006")
	return s.Email.Send(user.Email, subject, body)
}

// RunWeekly sends a weekly digest to every user opted into weekly digests.
func (s *Scheduler) RunWeekly(ctx context.Context, now time.Time) {
	slog.Info("running weekly digest job")

	var users []models.User
	if err := s.DB.Where("email_digest_enabled = ? AND email_digest_frequency = ?", true, models.DigestWeekly).
		Find(&users).Error; err != nil {
		slog.Error("weekly digest: listing users failed", "err", err)
		return
	}

	for _, user := range users {
		if err := s.sendWeekly(ctx, user, now); err != nil {
			slog.Error("weekly digest failed for user", "email", user.Email, "err", err)
		}
	}
}

// BuildWeekly computes a user's weekly digest: per-group completion
// percentage, tasks the user completed in the last 7 days, and commit counts
// from the linked repositories when both links exist.
func (s *Scheduler) BuildWeekly(ctx context.Context, user models.User, now time.Time) (email.WeeklyDigestData, error) {
	oneWeekAgo := now.AddDate(0, 0, -7)

	var groups []models.Group
	if err := s.DB.Find(&groups).Error; err != nil {
		return email.WeeklyDigestData{}, err
	}

	data := email.WeeklyDigestData{Name: user.Name, Date: now}
	for _, group := range groups {
		if !group.HasMember(user.ID) {
			continue
		}

		var tasks []models.Task
		if err := s.DB.Where("group_id = ?", group.ID).Find(&tasks).Error; err != nil {
			return email.WeeklyDigestData{}, err
		}

		completed := 0
		for _, t := range tasks {
			if t.Status != models.StatusDone {
				continue
			}
			completed++
			if t.AssigneeID == user.ID && t.UpdatedAt.After(oneWeekAgo) {
				data.CompletedThisWeek++
			}
		}

		progress := 0
		if len(tasks) > 0 {
			progress = completed * 100 / len(tasks)
		}
		data.Groups = append(data.Groups, email.GroupProgress{
			Name:           group.Name,
			Progress:       progress,
			CompletedTasks: completed,
			TotalTasks:     len(tasks),
		})

		if group.GithubRepo != "" && user.GithubUsername != "" && s.Github != nil {
			stats := s.repoStats(ctx, group.GithubRepo)
			data.TotalCommits += stats[strings.ToLower(user.GithubUsername)]
		}
	}
	return data, nil
}

func (s *Scheduler) repoStats(ctx context.Context, repo string) map[string]int {
	if stats, ok := s.statsCache.Get(repo); ok {
		return stats
	}
	stats, err := s.Github.GetRepoCommitStats(ctx, repo)
	if err != nil || stats == nil {
		return map[string]int{}
	}
	s.statsCache.Set(repo, stats, 30*time.Minute)
	return stats
}

func (s *Scheduler) sendWeekly(ctx context.Context, user models.User, now time.Time) error {
	data, err := s.BuildWeekly(ctx, user, now)
	if err != nil {
		return err
	}
	body, err := email.RenderWeeklyDigest(data)
	if err != nil {
		return err
	}
	subject := "Weekly Team Progress Wrap-up - " + now.Format("2 Jan 2006")
	return s.Email.Send(user.Email, subject, body)
}
