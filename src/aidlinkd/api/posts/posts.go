package posts

import (
	"net/http"
	"strings"

	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	"github.com/aidlink/aidlink/src/aidlinkd/db"
	"github.com/aidlink/aidlink/src/common/errors"
	"github.com/aidlink/aidlink/src/common/logs"
	"github.com/aidlink/aidlink/src/common/sanitize"
	"github.com/gin-gonic/gin"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the posts package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// NewHandler creates a new posts handler
func NewHandler(cfg Config) *Handler {
	return &Handler{
		postRepo:   cfg.PostRepo,
		jwtService: cfg.JWTService,
		translator: cfg.Translator,
	}
}

// outputPost reverses input sanitization on the free-form fields of a
// post leaving the API.
func outputPost(p db.Post) db.Post {
	p.Title = sanitize.Output(p.Title)
	p.Description = sanitize.Output(p.Description)
	p.Schedule = sanitize.Output(p.Schedule)
	p.Locations = sanitize.OutputSlice(p.Locations)
	for i := range p.Contacts {
		p.Contacts[i].Contact = sanitize.Output(p.Contacts[i].Contact)
	}
	return p
}

func outputPosts(posts []db.Post) []db.Post {
	out := make([]db.Post, len(posts))
	for i, p := range posts {
		out[i] = outputPost(p)
	}
	return out
}

// validateNeeds normalizes need values to lower case and rejects
// anything outside the recognized categories.
func validateNeeds(needs []string) ([]string, error) {
	out := make([]string, 0, len(needs))
	for _, n := range needs {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if !db.IsNeedCategory(n) {
			return nil, errors.ErrInvalidNeed.WithMessagef("Unknown need category: %s", n)
		}
		out = append(out, n)
	}
	return out, nil
}

// HandleList returns one page of the public feed, optionally filtered
// @Summary      List posts
// @Description  Returns active posts, newest first, optionally narrowed by a free-text query or detailed filters
// @Tags         Posts
// @Produce      json
// @Param        q          query     string    false  "Free-text query across title, description, owner and locations"
// @Param        title      query     string    false  "Title filter (detailed mode)"
// @Param        locations  query     []string  false  "Location filters (detailed mode)"
// @Param        needs      query     []string  false  "Need category filters (detailed mode)"
// @Success      200        {object}  PostListResponse
// @Failure      500        {object}  common.ErrorResponse
// @Router       /v1/posts [get]
func (h *Handler) HandleList(c *gin.Context) {
	var filter db.PostFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	h.listFiltered(c, &filter)
}

// HandleSearch returns one page of the public feed narrowed by a filter
// in the request body
// @Summary      Search posts
// @Description  Same semantics as listing, with the filter carried in the request body
// @Tags         Posts
// @Accept       json
// @Produce      json
// @Param        filter  body      db.PostFilter  true  "Feed filter"
// @Success      200     {object}  PostListResponse
// @Failure      400     {object}  common.ErrorResponse
// @Failure      500     {object}  common.ErrorResponse
// @Router       /v1/posts/search [post]
func (h *Handler) HandleSearch(c *gin.Context) {
	var filter db.PostFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	h.listFiltered(c, &filter)
}

func (h *Handler) listFiltered(c *gin.Context, filter *db.PostFilter) {
	posts, total, err := h.postRepo.GetPostsAndTotal(c.Request.Context(), filter)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	c.JSON(http.StatusOK, PostListResponse{
		Count: len(posts),
		Total: total,
		Posts: outputPosts(posts),
	})
}

// HandleGet returns a single post by slug
// @Summary      Get a post
// @Description  Returns a post by its slug
// @Tags         Posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  db.Post
// @Failure      404   {object}  common.ErrorResponse
// @Failure      500   {object}  common.ErrorResponse
// @Router       /v1/posts/{slug} [get]
func (h *Handler) HandleGet(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.postRepo.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	c.JSON(http.StatusOK, outputPost(*post))
}

// HandleCreate creates a new post owned by the authenticated user
// @Summary      Create a post
// @Description  Creates a new post owned by the authenticated user
// @Tags         Posts
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePostRequest  true  "Post creation request"
// @Success      201      {object}  db.Post
// @Failure      400      {object}  common.ErrorResponse
// @Failure      401      {object}  common.ErrorResponse
// @Failure      409      {object}  common.ErrorResponse
// @Failure      500      {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/posts [post]
func (h *Handler) HandleCreate(c *gin.Context) {
	claims := common.GetClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Error:   "Unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	needs, err := validateNeeds(req.Needs)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	post := &db.Post{
		Title:       sanitize.Input(req.Title),
		Description: sanitize.Input(req.Description),
		Locations:   sanitize.InputSlice(req.Locations),
		Needs:       needs,
		Schedule:    sanitize.Input(req.Schedule),
		Contacts:    sanitizeContacts(req.Contacts),
	}

	created, err := h.postRepo.Create(c.Request.Context(), post, claims.UserID)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	common.AuditLog(c, common.AuditEvent{Action: "post.create", UserID: claims.UserID, UserName: claims.Slug, Resource: "post:" + created.Slug, Success: true})

	c.JSON(http.StatusCreated, outputPost(*created))
}

// HandleUpdate replaces a post's content if the caller owns it. A
// snapshot of the previous values is kept in the post's history.
// @Summary      Update a post
// @Description  Replaces the post's fields (owner only) and records the previous values in its history
// @Tags         Posts
// @Accept       json
// @Produce      json
// @Param        slug     path      string             true  "Post slug"
// @Param        request  body      UpdatePostRequest  true  "Post update request"
// @Success      200      {object}  db.Post
// @Failure      400      {object}  common.ErrorResponse
// @Failure      401      {object}  common.ErrorResponse
// @Failure      403      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse
// @Failure      500      {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/posts/{slug} [put]
func (h *Handler) HandleUpdate(c *gin.Context) {
	slug := c.Param("slug")

	claims := common.GetClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Error:   "Unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	needs, err := validateNeeds(req.Needs)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	state := req.State
	if state == "" {
		state = db.PostStateActive
	}
	if state != db.PostStateActive && state != db.PostStateInactive {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error:   "Bad request",
			Code:    http.StatusBadRequest,
			Message: "State must be active or inactive",
		})
		return
	}

	payload := db.UpdatePostPayload{
		Title:       sanitize.Input(req.Title),
		Description: sanitize.Input(req.Description),
		Locations:   sanitize.InputSlice(req.Locations),
		Needs:       needs,
		Schedule:    sanitize.Input(req.Schedule),
		Contacts:    sanitizeContacts(req.Contacts),
		State:       state,
	}

	updated, err := h.postRepo.Update(c.Request.Context(), slug, payload, claims.UserID)
	if err != nil {
		if errors.Is(err, errors.ErrNotOwner) {
			common.AuditLog(c, common.AuditEvent{Action: "post.update", UserID: claims.UserID, UserName: claims.Slug, Resource: "post:" + slug, Detail: "not owner", Success: false})
			c.JSON(http.StatusForbidden, errors.ErrNotOwner.WithMessage("You can only update your own posts").ToResponse())
			return
		}
		common.RespondError(c, h.translator, err)
		return
	}

	common.AuditLog(c, common.AuditEvent{Action: "post.update", UserID: claims.UserID, UserName: claims.Slug, Resource: "post:" + slug, Success: true})

	c.JSON(http.StatusOK, outputPost(*updated))
}

// HandleDelete removes a post (owner only)
// @Summary      Delete a post
// @Description  Deletes a post owned by the authenticated user
// @Tags         Posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      204   "No Content"
// @Failure      401   {object}  common.ErrorResponse
// @Failure      403   {object}  common.ErrorResponse
// @Failure      404   {object}  common.ErrorResponse
// @Failure      500   {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/posts/{slug} [delete]
func (h *Handler) HandleDelete(c *gin.Context) {
	slug := c.Param("slug")

	claims := common.GetClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Error:   "Unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return
	}

	post, err := h.postRepo.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	if post.CreatedUserID != claims.UserID {
		c.JSON(http.StatusForbidden, common.ErrorResponse{
			Error:   "Forbidden",
			Code:    http.StatusForbidden,
			Message: "You can only delete your own posts",
		})
		return
	}

	if err := h.postRepo.Delete(c.Request.Context(), post.ID); err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	common.AuditLog(c, common.AuditEvent{Action: "post.delete", UserID: claims.UserID, UserName: claims.Slug, Resource: "post:" + slug, Success: true})

	c.Status(http.StatusNoContent)
}

// HandleHistory returns the audit trail of a post (owner only)
// @Summary      Get post history
// @Description  Returns the snapshots taken before each update of the post (owner only)
// @Tags         Posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  PostHistoryResponse
// @Failure      401   {object}  common.ErrorResponse
// @Failure      403   {object}  common.ErrorResponse
// @Failure      404   {object}  common.ErrorResponse
// @Failure      500   {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/posts/{slug}/history [get]
func (h *Handler) HandleHistory(c *gin.Context) {
	slug := c.Param("slug")

	claims := common.GetClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Error:   "Unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return
	}

	post, err := h.postRepo.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	if post.CreatedUserID != claims.UserID {
		c.JSON(http.StatusForbidden, common.ErrorResponse{
			Error:   "Forbidden",
			Code:    http.StatusForbidden,
			Message: "You can only view the history of your own posts",
		})
		return
	}

	history, err := h.postRepo.GetHistory(c.Request.Context(), post.ID)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	if history == nil {
		history = []db.PostHistory{}
	}

	c.JSON(http.StatusOK, PostHistoryResponse{
		Count:   len(history),
		History: history,
	})
}

// HandleListOwn returns every post owned by the authenticated user,
// including inactive ones
// @Summary      List own posts
// @Description  Returns the authenticated user's posts in every state, newest first
// @Tags         Posts
// @Produce      json
// @Success      200  {object}  PostListResponse
// @Failure      401  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/profile/posts [get]
func (h *Handler) HandleListOwn(c *gin.Context) {
	claims := common.GetClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, common.ErrorResponse{
			Error:   "Unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
		})
		return
	}

	posts, err := h.postRepo.GetByOwner(c.Request.Context(), claims.UserID)
	if err != nil {
		common.RespondError(c, h.translator, err)
		return
	}

	c.JSON(http.StatusOK, PostListResponse{
		Count: len(posts),
		Total: len(posts),
		Posts: outputPosts(posts),
	})
}

func sanitizeContacts(contacts []db.Contact) []db.Contact {
	out := make([]db.Contact, 0, len(contacts))
	for _, ct := range contacts {
		out = append(out, db.Contact{
			Type:    sanitize.Input(ct.Type),
			Contact: sanitize.Input(ct.Contact),
		})
	}
	return out
}
