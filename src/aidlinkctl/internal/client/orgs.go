package client

import (
	"context"
	"fmt"
)

// Organization represents a verified organization's public profile
type Organization struct {
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio,omitempty"`
	Photo          string    `json:"photo,omitempty"`
	PhotoThumbnail string    `json:"photo_thumbnail,omitempty"`
	Website        string    `json:"website,omitempty"`
	Address        string    `json:"address,omitempty"`
	PostalCode     string    `json:"postal_code,omitempty"`
	City           string    `json:"city,omitempty"`
	District       string    `json:"district,omitempty"`
	Contacts       []Contact `json:"contacts"`
}

// OrgListResponse represents the organizations directory
type OrgListResponse struct {
	Count         int            `json:"count"`
	Total         int            `json:"total"`
	Organizations []Organization `json:"organizations"`
}

// ListOrgs returns the directory of verified organizations
func (c *Client) ListOrgs(ctx context.Context) (*OrgListResponse, error) {
	var resp OrgListResponse
	if err := c.Get(ctx, "/v1/organizations", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOrg returns a single organization profile by slug
func (c *Client) GetOrg(ctx context.Context, slug string) (*Organization, error) {
	var resp Organization
	if err := c.Get(ctx, fmt.Sprintf("/v1/organizations/%s", slug), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
