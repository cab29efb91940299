package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"life-tasks/internal/model"
	"life-tasks/internal/repository"
)

type fixture struct {
	db       *gorm.DB
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
	tasks    *TaskService
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repository.NewDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	f := &fixture{
		db:       db,
		taskRepo: repository.NewTaskRepository(db),
		userRepo: repository.NewUserRepository(db),
		clock:    time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC),
	}
	f.tasks = NewTaskService(f.taskRepo, zerolog.Nop())
	f.tasks.now = f.now
	return f
}

func (f *fixture) now() time.Time { return f.clock }

func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: "x",
		Preferences:  model.DefaultPreferences(),
	}
	require.NoError(t, f.userRepo.Create(context.Background(), u))
	return u
}

func (f *fixture) task(t *testing.T, owner *model.User, input TaskInput) *model.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), owner, input)
	require.NoError(t, err)
	return task
}

func (f *fixture) reload(t *testing.T, owner *model.User, id string) *model.Task {
	t.Helper()
	task, err := f.tasks.GetTask(context.Background(), owner, id)
	require.NoError(t, err)
	return task
}
