package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
)

func (c *Client) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/addresses", userID), nil)
	if err != nil {
		return nil, err
	}

	var addresses []model.Address
	if err := c.do(req, &addresses); err != nil {
		return nil, err
	}

	return addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, userID int64, payload model.AddressRequest) (*model.Address, error) {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/users/%d/addresses", userID), payload)
	if err != nil {
		return nil, err
	}

	var address model.Address
	if err := c.do(req, &address); err != nil {
		return nil, err
	}

	return &address, nil
}

func (c *Client) UpdateAddress(ctx context.Context, userID int64, addressID int64, payload model.AddressRequest) (*model.Address, error) {
	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d/addresses/%d", userID, addressID), payload)
	if err != nil {
		return nil, err
	}

	var address model.Address
	if err := c.do(req, &address); err != nil {
		return nil, err
	}

	return &address, nil
}

func (c *Client) DeleteAddress(ctx context.Context, userID int64, addressID int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d/addresses/%d", userID, addressID), nil)
	if err != nil {
		return err
	}

	return c.do(req, nil)
}
