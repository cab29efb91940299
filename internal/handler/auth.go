package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"life-tasks/internal/service"
)

func (h *Handler) register(c echo.Context) error {
	var input service.RegisterInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	session, err := h.auth.Register(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, session)
}

func (h *Handler) login(c echo.Context) error {
	var input service.LoginInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	session, err := h.auth.Login(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) me(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}

func (h *Handler) updatePreferences(c echo.Context) error {
	var patch service.PreferencesPatch
	if err := c.Bind(&patch); err != nil {
		return err
	}
	user, err := h.auth.UpdatePreferences(c.Request().Context(), currentUser(c), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
