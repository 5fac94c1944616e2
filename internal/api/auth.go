package api

import (
	"context"
	"net/http"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
)

func (c *Client) Authenticate(ctx context.Context, creds model.LoginRequest) (*model.AuthResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/authenticate", creds)
	if err != nil {
		return nil, err
	}

	var auth model.AuthResponse
	if err := c.do(req, &auth); err != nil {
		return nil, err
	}

	return &auth, nil
}

func (c *Client) Register(ctx context.Context, payload model.RegisterRequest) (*model.AuthResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/register", payload)
	if err != nil {
		return nil, err
	}

	var auth model.AuthResponse
	if err := c.do(req, &auth); err != nil {
		return nil, err
	}

	return &auth, nil
}
