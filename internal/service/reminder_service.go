package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"life-tasks/internal/model"
	"life-tasks/internal/notify"
	"life-tasks/internal/repository"
)

// SweepResult summarizes one reminder run.
type SweepResult struct {
	TasksConsidered int
	UsersNotified   int
	Failures        int
}

// ReminderService finds tasks that need attention and sends one digest per owner.
// Delivery is at-least-once: running it twice on the same day sends the digest twice.
type ReminderService struct {
	taskRepo     *repository.TaskRepository
	userRepo     *repository.UserRepository
	notifiers    []notify.Notifier
	window       time.Duration
	dashboardURL string
	log          zerolog.Logger
}

func NewReminderService(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository, notifiers []notify.Notifier, window time.Duration, dashboardURL string, log zerolog.Logger) *ReminderService {
	if window <= 0 {
		window = 3 * 24 * time.Hour
	}
	return &ReminderService{
		taskRepo:     taskRepo,
		userRepo:     userRepo,
		notifiers:    notifiers,
		window:       window,
		dashboardURL: dashboardURL,
		log:          log,
	}
}

// SendReminders runs one sweep at now. A failed delivery to one owner is logged and does not stop the others.
func (s *ReminderService) SendReminders(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	candidates, err := s.taskRepo.ListReminderCandidates(ctx, dayStart, dayStart.Add(s.window))
	if err != nil {
		return result, err
	}

	byUser := make(map[string][]model.Task)
	var userIDs []string
	for _, task := range candidates {
		if !dueInWindow(task, dayStart, dayStart.Add(s.window)) && !remindedOn(task, dayStart, dayEnd) {
			continue
		}
		if _, ok := byUser[task.UserID]; !ok {
			userIDs = append(userIDs, task.UserID)
		}
		byUser[task.UserID] = append(byUser[task.UserID], task)
		result.TasksConsidered++
	}
	if len(userIDs) == 0 {
		return result, nil
	}

	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return result, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	for _, user := range users {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		tasks := byUser[user.ID]
		sortForDigest(tasks)
		digest := notify.Digest{User: user, Tasks: tasks, GeneratedAt: now, DashboardURL: s.dashboardURL}

		delivered := false
		for _, n := range s.notifiers {
			if !n.Enabled(user) {
				continue
			}
			if err := n.Send(ctx, digest); err != nil {
				result.Failures++
				s.log.Error().Err(err).Str("user", user.ID).Str("channel", n.Channel()).Msg("send reminder")
				continue
			}
			delivered = true
		}
		if delivered {
			result.UsersNotified++
		}
	}
	return result, nil
}

// Run is the scheduler entry point.
func (s *ReminderService) Run(ctx context.Context) {
	res, err := s.SendReminders(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("reminder sweep failed")
		return
	}
	s.log.Info().
		Int("tasks", res.TasksConsidered).
		Int("users", res.UsersNotified).
		Int("failures", res.Failures).
		Msgf("reminder check complete, sent reminders for %d tasks", res.TasksConsidered)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dueInWindow(task model.Task, from, to time.Time) bool {
	return task.DueDate != nil && !task.DueDate.Before(from) && task.DueDate.Before(to)
}

func remindedOn(task model.Task, from, to time.Time) bool {
	for _, r := range task.ReminderDates {
		if !r.Before(from) && r.Before(to) {
			return true
		}
	}
	return false
}

// sortForDigest puts the earliest due dates first, undated tasks last by priority.
func sortForDigest(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		switch {
		case tasks[i].DueDate == nil && tasks[j].DueDate == nil:
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		case tasks[i].DueDate == nil:
			return false
		case tasks[j].DueDate == nil:
			return true
		default:
			return tasks[i].DueDate.Before(*tasks[j].DueDate)
		}
	})
}
