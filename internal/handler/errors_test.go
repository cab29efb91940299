package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"life-tasks/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{&service.ValidationError{Field: "title", Message: "is required"}, http.StatusBadRequest, "title is required"},
		{service.ErrInvalidToken, http.StatusUnauthorized, "invalid or expired token"},
		{service.ErrNotOwner, http.StatusForbidden, "not authorized to access this task"},
		{service.ErrSubtaskNotFound, http.StatusNotFound, "subtask not found"},
		{fmt.Errorf("register: %w", service.ErrEmailTaken), http.StatusConflict, "register: email is already registered"},
		{echo.NewHTTPError(http.StatusUnsupportedMediaType, "unsupported"), http.StatusUnsupportedMediaType, "unsupported"},
		{errors.New("disk full"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		status, msg := statusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.msg, msg)
	}
}

func TestStatusForBindErrors(t *testing.T) {
	bindErr := func(internal error) error {
		return echo.NewHTTPError(http.StatusBadRequest, internal.Error()).SetInternal(internal)
	}

	var v struct {
		Title string `json:"title"`
	}
	syntaxErr := json.Unmarshal([]byte(`{"title":`), &v)
	require.Error(t, syntaxErr)
	typeErr := json.Unmarshal([]byte(`{"title":3}`), &v)
	require.Error(t, typeErr)
	var ts struct {
		At time.Time `json:"at"`
	}
	parseErr := json.Unmarshal([]byte(`{"at":"tomorrow"}`), &ts)
	require.Error(t, parseErr)
	_, dateErr := service.ParseDate("20/10/2026")
	require.Error(t, dateErr)

	cases := []struct {
		err error
		msg string
	}{
		{bindErr(syntaxErr), "invalid request body: malformed JSON"},
		{bindErr(io.ErrUnexpectedEOF), "invalid request body: malformed JSON"},
		{bindErr(typeErr), "invalid request body: title has the wrong type"},
		{bindErr(parseErr), "invalid request body: timestamps must be RFC 3339"},
		{bindErr(dateErr), `date "20/10/2026" is not a date; use YYYY-MM-DD or RFC 3339`},
	}
	for _, tc := range cases {
		status, msg := statusFor(tc.err)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, tc.msg, msg)
		assert.NotContains(t, msg, "2006-01-02T15:04:05")
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	token, ok = bearerToken("bearer  xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", token)

	for _, h := range []string{"", "Bearer ", "Basic abc", "abc"} {
		_, ok := bearerToken(h)
		assert.False(t, ok, h)
	}
}
