package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mapsocial/mapsocial-go/internal/model"
	"github.com/mapsocial/mapsocial-go/util"
)

type postsQuery struct {
	LocationID int64 `url:"location_id"`
}

// Posts lists a location's posts, newest first (server order).
func (c *Client) Posts(ctx context.Context, locationID int64) ([]model.Post, error) {
	var out []model.Post
	if err := c.getJSON(ctx, "/posts", postsQuery{LocationID: locationID}, &out); err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	return out, nil
}

// CreatePost creates a post on a location. Requires a signed-in identity.
func (c *Client) CreatePost(ctx context.Context, input model.CreatePostRequest) (*model.Post, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if err := util.ValidateStruct(input); err != nil {
		return nil, errors.Wrap(err, "validate post input")
	}
	var post model.Post
	if err := c.postJSON(ctx, "/posts", input, &post); err != nil {
		return nil, errors.Wrap(err, "create post")
	}
	return &post, nil
}
