package client

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

var errNoVerifiedEmail = errors.New("github: no verified email found")

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// primaryEmail consulta /user/emails: primario verificado, después cualquier
// verificado. Un email no verificado nunca se devuelve.
func (c *Client) primaryEmail(ctx context.Context, tok *oauth2.Token) (string, error) {
	var emails []githubEmail
	if err := c.getJSON(ctx, tok, c.EmailsURL, &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", errNoVerifiedEmail
}
