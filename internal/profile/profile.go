package profile

import "time"

// Profile is the wire representation of a user profile.
type Profile struct {
	UserID      string      `json:"userId"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Statistics  *Statistics `json:"statistics,omitempty"`
}

// Statistics counts a user's stored fitness entities.
type Statistics struct {
	DataSourcesCount int `json:"dataSourcesCount"`
	DataPointsCount  int `json:"dataPointsCount"`
	SessionsCount    int `json:"sessionsCount"`
}

// Record is the storage row shape of a profile.
type Record struct {
	ID          string
	Email       string
	DisplayName *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToWire translates a storage row to the wire shape, without the
// statistics block.
func (r *Record) ToWire() Profile {
	p := Profile{
		UserID:    r.ID,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.DisplayName != nil {
		p.DisplayName = *r.DisplayName
	}
	return p
}
