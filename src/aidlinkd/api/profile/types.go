package profile

import (
	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	coreauth "github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/aidlinkd/storage"
)

// Handler handles profile HTTP requests for the authenticated user
type Handler struct {
	userManager *coreauth.UserManager
	storage     storage.Backend
	translator  common.Translator
}

// Config contains configuration options for the Handler
type Config struct {
	UserManager *coreauth.UserManager
	Storage     storage.Backend
	Translator  common.Translator
}

// UpdateProfileRequest carries partial profile updates as field and
// value pairs.
type UpdateProfileRequest struct {
	Fields []coreauth.FieldValue `json:"fields" binding:"required"`
}

// PhotoUploadResponse represents a successful photo upload
type PhotoUploadResponse struct {
	Photo string `json:"photo"`
}
