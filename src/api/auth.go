package api

import (
	"context"
	"net/http"
	"net/url"
	"ticketmate/src/models"
	"ticketmate/src/types"
)

func (c *Client) Login(ctx context.Context, body types.LoginRequestBody) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, "Login", http.MethodPost, "/auth/login", &body, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Register(ctx context.Context, body types.SignupRequestBody) error {
	return c.do(ctx, "Register", http.MethodPost, "/auth/register", &body, nil, false)
}

// RefreshToken rotates the session tokens. The reply is a full user
// record carrying the fresh access and refresh tokens.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	body := types.RefreshTokenRequestBody{RefreshToken: refreshToken}
	var user models.User
	if err := c.do(ctx, "RefreshToken", http.MethodPost, "/auth/refresh", &body, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "Logout", http.MethodGet, "/auth/logout", nil, nil, true)
}

func (c *Client) UpdateUser(ctx context.Context, userID string, body types.UpdateUserRequestBody) (*models.User, error) {
	var user models.User
	path := "/user/" + url.PathEscape(userID)
	if err := c.do(ctx, "UpdateUser", http.MethodPut, path, &body, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}
