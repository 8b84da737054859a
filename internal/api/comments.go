package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mapsocial/mapsocial-go/internal/model"
	"github.com/mapsocial/mapsocial-go/util"
)

type commentsQuery struct {
	PostID int64 `url:"post_id"`
}

// Comments lists a post's comments in chronological order.
func (c *Client) Comments(ctx context.Context, postID int64) ([]model.Comment, error) {
	var out []model.Comment
	if err := c.getJSON(ctx, "/comments", commentsQuery{PostID: postID}, &out); err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	return out, nil
}

// CreateComment adds a comment to a post. Requires a signed-in identity.
func (c *Client) CreateComment(ctx context.Context, input model.CreateCommentRequest) (*model.Comment, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if err := util.ValidateStruct(input); err != nil {
		return nil, errors.Wrap(err, "validate comment input")
	}
	var comment model.Comment
	if err := c.postJSON(ctx, "/comments", input, &comment); err != nil {
		return nil, errors.Wrap(err, "create comment")
	}
	return &comment, nil
}
