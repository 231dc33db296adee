package session_test

import (
	"testing"
	"time"

	"github.com/healthyduck/fitnessapi/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ToRecord(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

	s := session.Session{
		ID:              "morning-run",
		Name:            "Morning Run",
		Description:     "around the pond",
		StartTimeMillis: "1000",
		EndTimeMillis:   "2000",
		ActivityType:    8,
		Application:     &session.Application{PackageName: "app.healthyduck"},
		ActiveTimeMillis: "800",
	}

	rec, err := s.ToRecord("duck-1", now)
	require.NoError(t, err)
	assert.Equal(t, "duck-1", rec.UserID)
	assert.Equal(t, "morning-run", rec.SessionID)
	require.NotNil(t, rec.Name)
	assert.Equal(t, "Morning Run", *rec.Name)
	assert.Equal(t, int64(1000), rec.StartTimeMillis)
	assert.Equal(t, int64(2000), rec.EndTimeMillis)
	// absent modified time defaults to now
	assert.Equal(t, now.UnixMilli(), rec.ModifiedTimeMillis)
	require.NotNil(t, rec.ApplicationPackageName)
	assert.Equal(t, "app.healthyduck", *rec.ApplicationPackageName)
	require.NotNil(t, rec.ActiveTimeMillis)
	assert.Equal(t, int64(800), *rec.ActiveTimeMillis)
}

func TestSession_ToRecord_InvalidTimes(t *testing.T) {
	now := time.Now()

	for _, s := range []session.Session{
		{ID: "s1", StartTimeMillis: "soon", EndTimeMillis: "2000"},
		{ID: "s1", StartTimeMillis: "1000", EndTimeMillis: ""},
		{ID: "s1", StartTimeMillis: "1000", EndTimeMillis: "2000", ModifiedTimeMillis: "later"},
		{ID: "s1", StartTimeMillis: "1000", EndTimeMillis: "2000", ActiveTimeMillis: "most of it"},
	} {
		_, err := s.ToRecord("duck-1", now)
		assert.ErrorIs(t, err, session.ErrInvalidTime)
	}
}

func TestRecord_ToWire(t *testing.T) {
	rec := session.Record{
		UserID:             "duck-1",
		SessionID:          "evening-swim",
		StartTimeMillis:    3000,
		EndTimeMillis:      4000,
		ModifiedTimeMillis: 4000,
		ActivityType:       82,
	}

	s := rec.ToWire()
	assert.Equal(t, "evening-swim", s.ID)
	assert.Empty(t, s.Name)
	assert.Equal(t, "3000", s.StartTimeMillis)
	assert.Equal(t, "4000", s.EndTimeMillis)
	assert.Equal(t, "4000", s.ModifiedTimeMillis)
	assert.Equal(t, 82, s.ActivityType)
	assert.Nil(t, s.Application)
	assert.Empty(t, s.ActiveTimeMillis)
}
