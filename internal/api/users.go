package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
)

func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := c.do(req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// FetchProfile resolves a subject id to its profile using an explicit
// bearer token. The session manager calls this while validating a token
// that is not (yet) the client's active credential.
func (c *Client) FetchProfile(ctx context.Context, id int64, bearer string) (*model.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	var user model.User
	if err := c.do(req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) ListUsers(ctx context.Context, page int, size int) (*model.Page[model.User], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	req, err := c.newRequest(ctx, http.MethodGet, "/api/users?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var result model.Page[model.User]
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, payload model.UserUpdateRequest) (*model.User, error) {
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), payload)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := c.do(req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
	if err != nil {
		return err
	}

	return c.do(req, nil)
}
