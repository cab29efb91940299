package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2026-10-20"`, time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)},
		{`" 2026-10-20 "`, time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)},
		{`"2026-10-20T09:15"`, time.Date(2026, time.October, 20, 9, 15, 0, 0, time.UTC)},
		{`"2026-10-20T09:15:00.5+02:00"`, time.Date(2026, time.October, 20, 7, 15, 0, 500000000, time.UTC)},
		{`""`, time.Time{}},
		{`null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.True(t, tt.want.Equal(d.Time), d.Time)
			assert.Equal(t, tt.want.IsZero(), d.Ptr() == nil)
		})
	}
}

func TestDateUnmarshalRejects(t *testing.T) {
	for _, in := range []string{`"20/10/2026"`, `"tomorrow"`, `20261020`, `{}`} {
		var d Date
		err := json.Unmarshal([]byte(in), &d)
		assert.True(t, IsValidation(err), in)
	}
}

func TestOptionalDatePatch(t *testing.T) {
	var patch TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":""}`), &patch))
	assert.True(t, patch.DueDate.Set)
	assert.Nil(t, optionalDate(patch.DueDate))

	patch = TaskPatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2026-10-20"}`), &patch))
	require.NotNil(t, optionalDate(patch.DueDate))
	assert.Equal(t, "2026-10-20", optionalDate(patch.DueDate).Format("2006-01-02"))

	patch = TaskPatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &patch))
	assert.False(t, patch.DueDate.Set)
}
