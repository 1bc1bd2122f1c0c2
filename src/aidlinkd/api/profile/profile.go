package profile

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	coreauth "github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/common/errors"
	"github.com/aidlink/aidlink/src/common/logs"
	"github.com/aidlink/aidlink/src/common/sanitize"
	"github.com/gin-gonic/gin"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the profile package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// maxPhotoSize bounds profile photo uploads
const maxPhotoSize = 5 << 20 // 5 MiB

var photoContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Fields whose values are stored HTML-escaped. Everything else passes
// through untouched, passwords in particular.
var sanitizedFields = map[string]bool{
	"name":        true,
	"bio":         true,
	"website":     true,
	"address":     true,
	"postal_code": true,
	"city":        true,
	"district":    true,
}

// NewHandler creates a new profile handler
func NewHandler(cfg Config) *Handler {
	return &Handler{
		userManager: cfg.UserManager,
		storage:     cfg.Storage,
		translator:  cfg.Translator,
	}
}

func ownProfileJSON(u *coreauth.User) *coreauth.User {
	out := *u
	out.Name = sanitize.Output(out.Name)
	out.Bio = sanitize.Output(out.Bio)
	out.Website = sanitize.Output(out.Website)
	out.Address = sanitize.Output(out.Address)
	out.City = sanitize.Output(out.City)
	out.District = sanitize.Output(out.District)
	for i := range out.Contacts {
		out.Contacts[i].Contact = sanitize.Output(out.Contacts[i].Contact)
	}
	return &out
}

// HandleGet returns the authenticated user's own profile
// @Summary      Get own profile
// @Description  Returns the full profile of the authenticated user
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  coreauth.User
// @Failure      401  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/profile [get]
func (h *Handler) HandleGet(c *gin.Context) {
	claims := common.GetClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Error:   "Unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return
	}

	user, err := h.userManager.GetUserByID(claims.UserID)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	c.JSON(http.StatusOK, ownProfileJSON(user))
}

// HandleUpdate applies field and value pairs to the authenticated
// user's profile. A password pair replaces the account password.
// @Summary      Update own profile
// @Description  Applies field/value pairs to the authenticated user's profile
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateProfileRequest  true  "Profile update request"
// @Success      200      {object}  coreauth.User
// @Failure      400      {object}  common.ErrorResponse
// @Failure      401      {object}  common.ErrorResponse
// @Failure      500      {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/profile [put]
func (h *Handler) HandleUpdate(c *gin.Context) {
	claims := common.GetClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Error:   "Unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	if len(req.Fields) == 0 {
		c.JSON(http.StatusBadRequest, errors.ErrMissingRequiredField.WithMessage("At least one field is required").ToResponse())
		return
	}

	pairs := make([]coreauth.FieldValue, 0, len(req.Fields))
	for _, fv := range req.Fields {
		if sanitizedFields[fv.Field] {
			fv.Value = sanitize.Input(fv.Value)
		}
		pairs = append(pairs, fv)
	}

	if err := h.userManager.UpdateUser(claims.UserID, pairs); err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	user, err := h.userManager.GetUserByID(claims.UserID)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	common.AuditLog(c, common.AuditEvent{Action: "profile.update", UserID: claims.UserID, UserName: claims.Slug, Resource: "user:" + claims.Slug, Success: true})

	c.JSON(http.StatusOK, ownProfileJSON(user))
}

// HandleUploadPhoto stores a new profile photo for the authenticated user
// @Summary      Upload profile photo
// @Description  Stores a profile photo (JPEG, PNG or WebP, 5 MiB max) and links it to the profile
// @Tags         Profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        photo  formData  file  true  "Photo file"
// @Success      200    {object}  PhotoUploadResponse
// @Failure      400    {object}  common.ErrorResponse
// @Failure      401    {object}  common.ErrorResponse
// @Failure      500    {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/profile/photo [post]
func (h *Handler) HandleUploadPhoto(c *gin.Context) {
	claims := common.GetClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Error:   "Unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: "A photo file is required",
		})
		return
	}

	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: "Photo exceeds the 5 MiB limit",
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	ext, ok := photoContentTypes[contentType]
	if !ok {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: "Photo must be JPEG, PNG or WebP",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.RespondError(c, h.translator, errors.ErrStorageUploadFailed.WithCause(err))
		return
	}
	defer file.Close()

	key := "users/" + claims.UserID + "/photo" + ext
	if err := h.storage.Upload(c.Request.Context(), key, file, fileHeader.Size, contentType); err != nil {
		common.RespondError(c, h.translator, errors.ErrStorageUploadFailed.WithCause(err))
		return
	}

	if err := h.userManager.UpdateUser(claims.UserID, []coreauth.FieldValue{
		{Field: "photo", Value: key},
	}); err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	common.AuditLog(c, common.AuditEvent{Action: "profile.photo.upload", UserID: claims.UserID, UserName: claims.Slug, Resource: "user:" + claims.Slug, Success: true})

	c.JSON(http.StatusOK, PhotoUploadResponse{Photo: key})
}

// HandleServePhoto streams a stored photo, or redirects to a presigned
// URL when the backing store supports it
// @Summary      Serve a photo
// @Description  Streams a stored photo by key, redirecting to object storage when possible
// @Tags         Profile
// @Produce      octet-stream
// @Param        key  path  string  true  "Photo key"
// @Success      200
// @Failure      404  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse
// @Router       /v1/photos/{key} [get]
func (h *Handler) HandleServePhoto(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: "Photo key required",
		})
		return
	}

	exists, err := h.storage.Exists(c.Request.Context(), key)
	if err != nil {
		common.RespondError(c, h.translator, errors.ErrStorageDownloadFailed.WithCause(err))
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, errors.ErrStorageNotFound.ToResponse())
		return
	}

	if url, err := h.storage.GetPresignedURL(c.Request.Context(), key, 15*time.Minute); err == nil && url != "" {
		c.Redirect(http.StatusTemporaryRedirect, url)
		return
	}

	reader, info, err := h.storage.Download(c.Request.Context(), key)
	if err != nil {
		common.RespondError(c, h.translator, errors.ErrStorageDownloadFailed.WithCause(err))
		return
	}
	defer reader.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", `inline; filename="`+filepath.Base(key)+`"`)
	c.DataFromReader(http.StatusOK, info.Size, contentType, reader, nil)
}
