package orgs

import (
	"net/http"

	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	coreauth "github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/aidlinkd/db"
	"github.com/aidlink/aidlink/src/common/logs"
	"github.com/aidlink/aidlink/src/common/sanitize"
	"github.com/gin-gonic/gin"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the orgs package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// NewHandler creates a new orgs handler
func NewHandler(cfg Config) *Handler {
	return &Handler{
		userManager: cfg.UserManager,
		translator:  cfg.Translator,
	}
}

func orgProfile(u *coreauth.User) OrgProfile {
	contacts := u.Contacts
	if contacts == nil {
		contacts = []db.Contact{}
	}
	for i := range contacts {
		contacts[i].Contact = sanitize.Output(contacts[i].Contact)
	}
	return OrgProfile{
		Slug:           u.Slug,
		Name:           sanitize.Output(u.Name),
		Bio:            sanitize.Output(u.Bio),
		Photo:          u.Photo,
		PhotoThumbnail: u.PhotoThumbnail,
		Website:        sanitize.Output(u.Website),
		Address:        sanitize.Output(u.Address),
		PostalCode:     u.PostalCode,
		City:           sanitize.Output(u.City),
		District:       sanitize.Output(u.District),
		Contacts:       contacts,
	}
}

// HandleList returns the directory of verified organizations
// @Summary      List organizations
// @Description  Returns up to 50 verified organizations ordered by name
// @Tags         Organizations
// @Produce      json
// @Success      200  {object}  OrgListResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /v1/organizations [get]
func (h *Handler) HandleList(c *gin.Context) {
	users, err := h.userManager.GetOrgs()
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	total, err := h.userManager.CountOrgs()
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	profiles := make([]OrgProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, orgProfile(&users[i]))
	}

	c.JSON(http.StatusOK, OrgListResponse{
		Count:         len(profiles),
		Total:         total,
		Organizations: profiles,
	})
}

// HandleGet returns the public profile of a verified organization
// @Summary      Get an organization
// @Description  Returns the public profile of a verified organization by slug
// @Tags         Organizations
// @Produce      json
// @Param        slug  path      string  true  "Organization slug"
// @Success      200   {object}  OrgProfile
// @Failure      404   {object}  common.ErrorResponse
// @Failure      500   {object}  common.ErrorResponse
// @Router       /v1/organizations/{slug} [get]
func (h *Handler) HandleGet(c *gin.Context) {
	slug := c.Param("slug")

	org, err := h.userManager.GetOrgBySlug(slug)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	c.JSON(http.StatusOK, orgProfile(org))
}
