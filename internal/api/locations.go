package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mapsocial/mapsocial-go/internal/model"
	"github.com/mapsocial/mapsocial-go/util"
)

// LocationsQuery represents parameters for the /locations listing.
type LocationsQuery struct {
	Bbox string `url:"bbox,omitempty"` // west,south,east,north
	Kind string `url:"kind,omitempty"`
}

// Locations lists locations, optionally scoped to a bounding box and kind.
// A nil query returns the unscoped default result.
func (c *Client) Locations(ctx context.Context, q *LocationsQuery) ([]model.Location, error) {
	var out []model.Location
	var params interface{}
	if q != nil {
		params = q
	}
	if err := c.getJSON(ctx, "/locations", params, &out); err != nil {
		return nil, errors.Wrap(err, "list locations")
	}
	return out, nil
}

// CreateLocation creates a location pin. Requires a signed-in identity.
func (c *Client) CreateLocation(ctx context.Context, input model.CreateLocationRequest) (*model.Location, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if err := util.ValidateStruct(input); err != nil {
		return nil, errors.Wrap(err, "validate location input")
	}
	var loc model.Location
	if err := c.postJSON(ctx, "/locations", input, &loc); err != nil {
		return nil, errors.Wrap(err, "create location")
	}
	return &loc, nil
}
