package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrInvalidTime = errors.New("invalid time value")

// Application identifies the app that recorded a session.
type Application struct {
	PackageName string `json:"packageName"`
}

// Session is the wire representation of one recorded activity. Time
// bounds are millisecond integers carried as decimal strings.
type Session struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name,omitempty"`
	Description        string       `json:"description,omitempty"`
	StartTimeMillis    string       `json:"startTimeMillis"`
	EndTimeMillis      string       `json:"endTimeMillis"`
	ModifiedTimeMillis string       `json:"modifiedTimeMillis,omitempty"`
	ActivityType       int          `json:"activityType"`
	Application        *Application `json:"application,omitempty"`
	ActiveTimeMillis   string       `json:"activeTimeMillis,omitempty"`
}

// Record is the storage row shape of one session.
type Record struct {
	UserID                 string
	SessionID              string
	Name                   *string
	Description            *string
	StartTimeMillis        int64
	EndTimeMillis          int64
	ModifiedTimeMillis     int64
	ActivityType           int
	ApplicationPackageName *string
	ActiveTimeMillis       *int64
}

// ToWire translates a storage row to the wire shape.
func (r *Record) ToWire() Session {
	s := Session{
		ID:                 r.SessionID,
		StartTimeMillis:    strconv.FormatInt(r.StartTimeMillis, 10),
		EndTimeMillis:      strconv.FormatInt(r.EndTimeMillis, 10),
		ModifiedTimeMillis: strconv.FormatInt(r.ModifiedTimeMillis, 10),
		ActivityType:       r.ActivityType,
	}
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.ApplicationPackageName != nil {
		s.Application = &Application{PackageName: *r.ApplicationPackageName}
	}
	if r.ActiveTimeMillis != nil {
		s.ActiveTimeMillis = strconv.FormatInt(*r.ActiveTimeMillis, 10)
	}
	return s
}

// ToRecord translates the wire shape to a storage row owned by userID.
// An empty modifiedTimeMillis defaults to now.
func (s *Session) ToRecord(userID string, now time.Time) (*Record, error) {
	startMillis, err := parseMillis(s.StartTimeMillis, "startTimeMillis")
	if err != nil {
		return nil, err
	}
	endMillis, err := parseMillis(s.EndTimeMillis, "endTimeMillis")
	if err != nil {
		return nil, err
	}

	modifiedMillis := now.UnixMilli()
	if s.ModifiedTimeMillis != "" {
		modifiedMillis, err = parseMillis(s.ModifiedTimeMillis, "modifiedTimeMillis")
		if err != nil {
			return nil, err
		}
	}

	rec := &Record{
		UserID:             userID,
		SessionID:          s.ID,
		StartTimeMillis:    startMillis,
		EndTimeMillis:      endMillis,
		ModifiedTimeMillis: modifiedMillis,
		ActivityType:       s.ActivityType,
	}
	if s.Name != "" {
		rec.Name = &s.Name
	}
	if s.Description != "" {
		rec.Description = &s.Description
	}
	if s.Application != nil && s.Application.PackageName != "" {
		rec.ApplicationPackageName = &s.Application.PackageName
	}
	if s.ActiveTimeMillis != "" {
		activeMillis, err := parseMillis(s.ActiveTimeMillis, "activeTimeMillis")
		if err != nil {
			return nil, err
		}
		rec.ActiveTimeMillis = &activeMillis
	}

	return rec, nil
}

func parseMillis(value, field string) (int64, error) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTime, field)
	}
	return parsed, nil
}
