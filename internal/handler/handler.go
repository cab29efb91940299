// Package handler exposes the task, assist and auth services over HTTP.
package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"life-tasks/internal/model"
	"life-tasks/internal/service"
)

const userContextKey = "user"

// Handler serves every API route. Each request runs as the user resolved from its bearer token.
type Handler struct {
	auth   *service.AuthService
	tasks  *service.TaskService
	assist *service.AssistService
	log    zerolog.Logger
}

func New(auth *service.AuthService, tasks *service.TaskService, assist *service.AssistService, log zerolog.Logger) *Handler {
	return &Handler{auth: auth, tasks: tasks, assist: assist, log: log}
}

// Register mounts the routes on g.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/health", h.health)

	g.POST("/auth/register", h.register)
	g.POST("/auth/login", h.login)
	g.GET("/auth/me", h.me, h.requireUser)
	g.GET("/auth/verify", h.me, h.requireUser)
	g.PUT("/auth/preferences", h.updatePreferences, h.requireUser)

	g.POST("/tasks", h.createTask, h.requireUser)
	g.GET("/tasks", h.listTasks, h.requireUser)
	g.GET("/tasks/:id", h.getTask, h.requireUser)
	g.PUT("/tasks/:id", h.updateTask, h.requireUser)
	g.DELETE("/tasks/:id", h.deleteTask, h.requireUser)
	g.POST("/tasks/:id/subtasks", h.addSubtask, h.requireUser)
	g.PUT("/tasks/:id/subtasks/:subId", h.updateSubtask, h.requireUser)
	g.DELETE("/tasks/:id/subtasks/:subId", h.deleteSubtask, h.requireUser)
	g.POST("/tasks/:id/reminders", h.addReminder, h.requireUser)

	g.POST("/ai/breakdown", h.breakdown, h.requireUser)
	g.POST("/ai/prioritize", h.prioritize, h.requireUser)
	g.POST("/ai/suggestions", h.suggest, h.requireUser)
	g.POST("/ai/subtask-suggestions", h.suggestSubtask, h.requireUser)
}

// requireUser resolves the bearer token and stores the user on the context.
func (h *Handler) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := bearerToken(header)
		if !ok {
			return service.ErrUnauthorized
		}
		user, err := h.auth.Authenticate(c.Request().Context(), token)
		if err != nil {
			return err
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func currentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
