package client

import (
	"context"
	"fmt"
	"net/url"
)

// Contact represents one way to reach a post owner or organization
type Contact struct {
	Type    string `json:"type"`
	Contact string `json:"contact"`
}

// Post represents an aid post resource
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Locations   []string  `json:"locations"`
	Needs       []string  `json:"needs"`
	Schedule    string    `json:"schedule,omitempty"`
	Contacts    []Contact `json:"contacts"`
	State       string    `json:"state"`
	Slug        string    `json:"slug"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// PostRevision represents one entry in a post's change history
type PostRevision struct {
	ID          int64     `json:"id"`
	PostID      string    `json:"post_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Locations   []string  `json:"locations"`
	Needs       []string  `json:"needs"`
	Schedule    string    `json:"schedule,omitempty"`
	Contacts    []Contact `json:"contacts"`
	State       string    `json:"state"`
	Slug        string    `json:"slug"`
	UpdatedAt   string    `json:"updated_at"`
}

// PostListResponse represents one page of the feed
type PostListResponse struct {
	Count int    `json:"count"`
	Total int    `json:"total"`
	Posts []Post `json:"posts"`
}

// PostHistoryResponse represents a post's change history
type PostHistoryResponse struct {
	Count   int            `json:"count"`
	History []PostRevision `json:"history"`
}

// FilterOptions holds optional feed filters. Query is the free-text mode;
// the remaining fields are the detailed mode.
type FilterOptions struct {
	Query     string   `json:"query,omitempty"`
	Title     string   `json:"title,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Needs     []string `json:"needs,omitempty"`
}

// QueryString builds a URL query string from the options
func (o *FilterOptions) QueryString() string {
	if o == nil {
		return ""
	}
	params := url.Values{}
	if o.Query != "" {
		params.Set("q", o.Query)
	}
	if o.Title != "" {
		params.Set("title", o.Title)
	}
	for _, loc := range o.Locations {
		params.Add("locations", loc)
	}
	for _, need := range o.Needs {
		params.Add("needs", need)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// CreatePostRequest represents the request to create a post
type CreatePostRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Locations   []string  `json:"locations,omitempty"`
	Needs       []string  `json:"needs,omitempty"`
	Schedule    string    `json:"schedule,omitempty"`
	Contacts    []Contact `json:"contacts,omitempty"`
}

// UpdatePostRequest represents the request to update a post. Fields
// replace the stored values wholesale.
type UpdatePostRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Locations   []string  `json:"locations"`
	Needs       []string  `json:"needs"`
	Schedule    string    `json:"schedule"`
	Contacts    []Contact `json:"contacts"`
	State       string    `json:"state,omitempty"`
}

// ListPosts returns one feed page of active posts
func (c *Client) ListPosts(ctx context.Context, opts *FilterOptions) (*PostListResponse, error) {
	var resp PostListResponse
	if err := c.Get(ctx, "/v1/posts"+opts.QueryString(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchPosts returns one feed page narrowed by the filter in the body
func (c *Client) SearchPosts(ctx context.Context, opts *FilterOptions) (*PostListResponse, error) {
	var resp PostListResponse
	if err := c.Post(ctx, "/v1/posts/search", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPost returns a single post by slug
func (c *Client) GetPost(ctx context.Context, slug string) (*Post, error) {
	var resp Post
	if err := c.Get(ctx, fmt.Sprintf("/v1/posts/%s", slug), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreatePost publishes a new post
func (c *Client) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	var resp Post
	if err := c.Post(ctx, "/v1/posts", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdatePost replaces a post's content
func (c *Client) UpdatePost(ctx context.Context, slug string, req *UpdatePostRequest) (*Post, error) {
	var resp Post
	if err := c.Put(ctx, fmt.Sprintf("/v1/posts/%s", slug), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeletePost removes a post
func (c *Client) DeletePost(ctx context.Context, slug string) error {
	return c.Delete(ctx, fmt.Sprintf("/v1/posts/%s", slug), nil)
}

// GetPostHistory returns the change history for an owned post
func (c *Client) GetPostHistory(ctx context.Context, slug string) (*PostHistoryResponse, error) {
	var resp PostHistoryResponse
	if err := c.Get(ctx, fmt.Sprintf("/v1/posts/%s/history", slug), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListOwnPosts returns the authenticated user's posts, including inactive ones
func (c *Client) ListOwnPosts(ctx context.Context) (*PostListResponse, error) {
	var resp PostListResponse
	if err := c.Get(ctx, "/v1/profile/posts", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
