package model

import (
	"fmt"
	"time"

	"github.com/mapsocial/mapsocial-go/util"
)

// Session is a scheduled activity session hosted at a location.
type Session struct {
	ID         int64     `json:"id"`
	LocationID int64     `json:"location_id"`
	HostID     int64     `json:"host_id"`
	Title      string    `json:"title"`
	Activity   string    `json:"activity"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	MaxPeople  *int      `json:"max_people,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary renders the one-line session description shown in the drawer.
// The "max N" qualifier only appears when the host actually set a cap.
func (s Session) Summary() string {
	out := fmt.Sprintf("%s (%s) %s – %s",
		s.Title, s.Activity,
		util.FormatTime("Jan 2 15:04", s.StartsAt), util.FormatTime("15:04", s.EndsAt))
	if s.MaxPeople != nil {
		out += fmt.Sprintf(", max %d", *s.MaxPeople)
	}
	return out
}

// CreateSessionRequest deliberately keeps MaxPeople a pointer: an absent
// cap must be omitted from the body, not sent as zero. The server decides
// whether starts_at precedes ends_at.
type CreateSessionRequest struct {
	LocationID int64     `json:"location_id" validate:"required"`
	Title      string    `json:"title" validate:"required"`
	Activity   string    `json:"activity" validate:"required"`
	StartsAt   time.Time `json:"starts_at" validate:"required"`
	EndsAt     time.Time `json:"ends_at" validate:"required"`
	MaxPeople  *int      `json:"max_people,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}
