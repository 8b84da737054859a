package api

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/mapsocial/mapsocial-go/internal/model"
	"github.com/mapsocial/mapsocial-go/util"
)

// Register creates an account and returns the new profile. It does not
// sign the user in; call SignIn afterwards.
func (c *Client) Register(ctx context.Context, input model.RegisterRequest) (*model.User, error) {
	if err := util.ValidateStruct(input); err != nil {
		return nil, errors.Wrap(err, "validate register input")
	}
	var user model.User
	if err := c.postJSON(ctx, "/auth/register", input, &user); err != nil {
		return nil, errors.Wrap(err, "register")
	}
	return &user, nil
}

// SignIn exchanges credentials for a bearer token. /auth/token is a
// standard OAuth2 password grant (form-encoded username/password), so the
// exchange goes through x/oauth2. The token and profile are persisted to
// the session store on success.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	if !util.IsEmail(email) {
		return errors.Errorf("invalid email %q", email)
	}
	if !util.NotBlank(password) {
		return errors.New("password must not be blank")
	}
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.BaseURL.ResolveReference(&url.URL{Path: "/auth/token"}).String(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	token, err := conf.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "exchange credentials")
	}
	if err := c.sessions.SaveToken(token.AccessToken); err != nil {
		return errors.Wrap(err, "persist token")
	}
	return nil
}
