package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// Profile represents the authenticated user's own account
type Profile struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Slug           string    `json:"slug"`
	Verified       bool      `json:"verified"`
	Bio            string    `json:"bio,omitempty"`
	Photo          string    `json:"photo,omitempty"`
	PhotoThumbnail string    `json:"photo_thumbnail,omitempty"`
	Website        string    `json:"website,omitempty"`
	Address        string    `json:"address,omitempty"`
	PostalCode     string    `json:"postal_code,omitempty"`
	City           string    `json:"city,omitempty"`
	District       string    `json:"district,omitempty"`
	Contacts       []Contact `json:"contacts"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

// FieldValue is one (field, value) pair for a partial profile update
type FieldValue struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateProfileRequest represents the request to update profile fields
type UpdateProfileRequest struct {
	Fields []FieldValue `json:"fields"`
}

// PhotoUploadResponse represents the response after a photo upload
type PhotoUploadResponse struct {
	Photo string `json:"photo"`
}

// GetProfile returns the authenticated user's own profile
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var resp Profile
	if err := c.Get(ctx, "/v1/profile", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile applies field and value pairs to the profile
func (c *Client) UpdateProfile(ctx context.Context, fields []FieldValue) (*Profile, error) {
	req := UpdateProfileRequest{Fields: fields}
	var resp Profile
	if err := c.Put(ctx, "/v1/profile", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadPhoto uploads a profile photo from a local file
func (c *Client) UploadPhoto(ctx context.Context, filePath string) (*PhotoUploadResponse, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		part, err := writer.CreateFormFile("photo", filepath.Base(filePath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		writer.Close()
	}()

	url := fmt.Sprintf("%s/v1/profile/photo", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp PhotoUploadResponse
	if err := c.Do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
