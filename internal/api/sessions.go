package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mapsocial/mapsocial-go/internal/model"
	"github.com/mapsocial/mapsocial-go/util"
)

type sessionsQuery struct {
	LocationID int64 `url:"location_id"`
}

// Sessions lists a location's activity sessions ordered by start time.
func (c *Client) Sessions(ctx context.Context, locationID int64) ([]model.Session, error) {
	var out []model.Session
	if err := c.getJSON(ctx, "/sessions", sessionsQuery{LocationID: locationID}, &out); err != nil {
		return nil, errors.Wrap(err, "list sessions")
	}
	return out, nil
}

// CreateSession schedules an activity session. Requires a signed-in
// identity. MaxPeople stays out of the body when nil; whether starts_at
// precedes ends_at is the server's call.
func (c *Client) CreateSession(ctx context.Context, input model.CreateSessionRequest) (*model.Session, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if err := util.ValidateStruct(input); err != nil {
		return nil, errors.Wrap(err, "validate session input")
	}
	var sess model.Session
	if err := c.postJSON(ctx, "/sessions", input, &sess); err != nil {
		return nil, errors.Wrap(err, "create session")
	}
	return &sess, nil
}
