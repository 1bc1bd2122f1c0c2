package posts

import (
	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	coreauth "github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/aidlinkd/db"
)

// Handler handles post HTTP requests
type Handler struct {
	postRepo   *db.PostRepository
	jwtService *coreauth.JWTService
	translator common.Translator
}

// Config contains configuration options for the Handler
type Config struct {
	PostRepo   *db.PostRepository
	JWTService *coreauth.JWTService
	Translator common.Translator
}

// CreatePostRequest represents the post creation request body
type CreatePostRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Locations   []string     `json:"locations"`
	Needs       []string     `json:"needs"`
	Schedule    string       `json:"schedule"`
	Contacts    []db.Contact `json:"contacts"`
}

// UpdatePostRequest represents the post update request body. All fields
// replace the stored values wholesale.
type UpdatePostRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Locations   []string     `json:"locations"`
	Needs       []string     `json:"needs"`
	Schedule    string       `json:"schedule"`
	Contacts    []db.Contact `json:"contacts"`
	State       db.PostState `json:"state"`
}

// PostListResponse represents a page of the public feed
type PostListResponse struct {
	Count int       `json:"count"`
	Total int       `json:"total"`
	Posts []db.Post `json:"posts"`
}

// PostHistoryResponse represents the audit trail of a post
type PostHistoryResponse struct {
	Count   int              `json:"count"`
	History []db.PostHistory `json:"history"`
}
