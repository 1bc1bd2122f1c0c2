package orgs

import (
	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	coreauth "github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/aidlinkd/db"
)

// Handler handles organization directory HTTP requests
type Handler struct {
	userManager *coreauth.UserManager
	translator  common.Translator
}

// Config contains configuration options for the Handler
type Config struct {
	UserManager *coreauth.UserManager
	Translator  common.Translator
}

// OrgProfile is the public profile of a verified organization. It never
// carries the account's email or credentials.
type OrgProfile struct {
	Slug           string       `json:"slug"`
	Name           string       `json:"name"`
	Bio            string       `json:"bio,omitempty"`
	Photo          string       `json:"photo,omitempty"`
	PhotoThumbnail string       `json:"photo_thumbnail,omitempty"`
	Website        string       `json:"website,omitempty"`
	Address        string       `json:"address,omitempty"`
	PostalCode     string       `json:"postal_code,omitempty"`
	City           string       `json:"city,omitempty"`
	District       string       `json:"district,omitempty"`
	Contacts       []db.Contact `json:"contacts"`
}

// OrgListResponse represents the organizations directory
type OrgListResponse struct {
	Count         int          `json:"count"`
	Total         int          `json:"total"`
	Organizations []OrgProfile `json:"organizations"`
}
