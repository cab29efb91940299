package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"life-tasks/internal/service"
)

type reminderRequest struct {
	Date service.Date `json:"date"`
}

func (h *Handler) createTask(c echo.Context) error {
	var input service.TaskInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	task, err := h.tasks.CreateTask(c.Request().Context(), currentUser(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) listTasks(c echo.Context) error {
	query := service.TaskQuery{
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
	}
	tasks, err := h.tasks.ListTasks(c.Request().Context(), currentUser(c), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) getTask(c echo.Context) error {
	task, err := h.tasks.GetTask(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) updateTask(c echo.Context) error {
	var patch service.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return err
	}
	task, err := h.tasks.UpdateTask(c.Request().Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) deleteTask(c echo.Context) error {
	if err := h.tasks.DeleteTask(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageBody{Message: "Task deleted successfully"})
}

func (h *Handler) addSubtask(c echo.Context) error {
	var input service.SubtaskInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	task, err := h.tasks.AddSubtask(c.Request().Context(), currentUser(c), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) updateSubtask(c echo.Context) error {
	var patch service.SubtaskPatch
	if err := c.Bind(&patch); err != nil {
		return err
	}
	task, err := h.tasks.UpdateSubtask(c.Request().Context(), currentUser(c), c.Param("id"), c.Param("subId"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) deleteSubtask(c echo.Context) error {
	if err := h.tasks.DeleteSubtask(c.Request().Context(), currentUser(c), c.Param("id"), c.Param("subId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageBody{Message: "Subtask deleted successfully"})
}

func (h *Handler) addReminder(c echo.Context) error {
	var req reminderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	task, err := h.tasks.AddReminder(c.Request().Context(), currentUser(c), c.Param("id"), req.Date.Time)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}
