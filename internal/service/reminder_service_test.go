package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"life-tasks/internal/model"
	"life-tasks/internal/notify"
)

type fakeNotifier struct {
	failFor map[string]bool
	sent    []notify.Digest
}

func (n *fakeNotifier) Channel() string { return "fake" }

func (n *fakeNotifier) Enabled(user model.User) bool { return user.Preferences.NotifyEmail }

func (n *fakeNotifier) Send(_ context.Context, d notify.Digest) error {
	if n.failFor[d.User.ID] {
		return errors.New("smtp: 554 rejected")
	}
	n.sent = append(n.sent, d)
	return nil
}

func (f *fixture) reminders(n notify.Notifier) *ReminderService {
	return NewReminderService(f.taskRepo, f.userRepo, []notify.Notifier{n}, 72*time.Hour, "http://localhost:3000", zerolog.Nop())
}

func at(t time.Time) Date { return DateOf(t) }

func TestSendRemindersGroupsByOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "Alice")
	bob := f.user(t, "Bob")
	carol := f.user(t, "Carol")
	now := f.clock

	bob.Preferences.NotifyEmail = false
	require.NoError(t, f.userRepo.UpdatePreferences(context.Background(), bob))

	f.task(t, alice, TaskInput{Title: "Pay rent", DueDate: at(now.Add(24 * time.Hour))})
	f.task(t, alice, TaskInput{Title: "Renew passport", DueDate: at(now.Add(5 * 24 * time.Hour))})
	f.task(t, alice, TaskInput{Title: "Done already", Status: "completed", DueDate: at(now.Add(time.Hour))})
	f.task(t, alice, TaskInput{Title: "Call plumber", ReminderDates: []time.Time{now.Add(2 * time.Hour)}})
	f.task(t, alice, TaskInput{Title: "Not today", ReminderDates: []time.Time{now.Add(30 * time.Hour)}})
	f.task(t, alice, TaskInput{Title: "Water plants", DueDate: at(now.Add(-time.Hour))})
	f.task(t, bob, TaskInput{Title: "Bob's task", DueDate: at(now.Add(48 * time.Hour))})
	f.task(t, carol, TaskInput{Title: "Carol's task", DueDate: at(now.Add(2 * time.Hour))})

	n := &fakeNotifier{failFor: map[string]bool{carol.ID: true}}
	res, err := f.reminders(n).SendReminders(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 5, res.TasksConsidered)
	assert.Equal(t, 1, res.UsersNotified)
	assert.Equal(t, 1, res.Failures)

	require.Len(t, n.sent, 1)
	digest := n.sent[0]
	assert.Equal(t, alice.ID, digest.User.ID)
	assert.Equal(t, "http://localhost:3000", digest.DashboardURL)
	var titles []string
	for _, task := range digest.Tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"Water plants", "Pay rent", "Call plumber"}, titles)
}

func TestSendRemindersIsAtLeastOnce(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "Alice")
	f.task(t, alice, TaskInput{Title: "Pay rent", DueDate: at(f.clock.Add(time.Hour))})
	n := &fakeNotifier{}
	s := f.reminders(n)

	for i := 0; i < 2; i++ {
		res, err := s.SendReminders(context.Background(), f.clock)
		require.NoError(t, err)
		assert.Equal(t, 1, res.UsersNotified)
	}
	assert.Len(t, n.sent, 2)
}

func TestSendRemindersWithNothingDue(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "Alice")
	f.task(t, alice, TaskInput{Title: "Someday"})
	n := &fakeNotifier{}

	res, err := f.reminders(n).SendReminders(context.Background(), f.clock)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, res)
	assert.Empty(t, n.sent)
}
