package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"life-tasks/internal/ai"
	"life-tasks/internal/service"
)

type prioritizeRequest struct {
	Tasks []ai.TaskBrief `json:"tasks"`
}

func (h *Handler) breakdown(c echo.Context) error {
	var req service.BreakdownRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := h.assist.Breakdown(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) prioritize(c echo.Context) error {
	var req prioritizeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := h.assist.Prioritize(c.Request().Context(), currentUser(c), req.Tasks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) suggest(c echo.Context) error {
	var req service.SuggestionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := h.assist.SuggestForTask(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) suggestSubtask(c echo.Context) error {
	var req service.SubtaskSuggestionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	resp, err := h.assist.SuggestForSubtask(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
