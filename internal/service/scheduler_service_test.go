package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("08:00")
	require.NoError(t, err)
	assert.Equal(t, "0 0 8 * * *", spec)

	spec, err = buildDailySpec("21:45")
	require.NoError(t, err)
	assert.Equal(t, "0 45 21 * * *", spec)

	for _, bad := range []string{"", "8", "24:00", "08:60", "aa:bb"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestSchedulerRegistersJobs(t *testing.T) {
	s := NewSchedulerService(time.UTC, zerolog.Nop())

	_, err := s.ScheduleDaily("08:00", func() {})
	require.NoError(t, err)
	_, err = s.ScheduleInterval(6*time.Hour, func() {})
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 2)

	_, err = s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	_, err = s.ScheduleInterval(500*time.Millisecond, func() {})
	assert.Error(t, err)
	_, err = s.ScheduleDaily("25:00", func() {})
	assert.Error(t, err)
}

func TestSchedulerRecoversPanickingJob(t *testing.T) {
	s := NewSchedulerService(time.UTC, zerolog.Nop())
	ran := make(chan struct{}, 4)
	_, err := s.ScheduleInterval(time.Second, func() {
		ran <- struct{}{}
		panic("boom")
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()
	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(4 * time.Second):
			t.Fatal("job did not keep running after a panic")
		}
	}
}

func TestSchedulerRunsIntervalJob(t *testing.T) {
	s := NewSchedulerService(time.UTC, zerolog.Nop())
	ran := make(chan struct{}, 1)
	_, err := s.ScheduleInterval(time.Second, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("interval job did not run")
	}
}
