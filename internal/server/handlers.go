package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
	"github.com/ALT-F4-LLC/softdesk/internal/output"
	"github.com/ALT-F4-LLC/softdesk/internal/service"
)

type handlers struct {
	svc *service.Service
}

// respond writes data in a success envelope.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, output.SuccessEnvelope{OK: true, Data: data})
}

// bind decodes the JSON body into dst. Malformed bodies are validation errors.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(fmt.Errorf("%w: malformed request body: %v", service.ErrValidation, err))
		return false
	}
	return true
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := model.ParseID(c.Param(name))
	if err != nil {
		c.Error(&service.FieldError{Field: name, Reason: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// --- accounts ---

type signupResponse struct {
	User   *model.User    `json:"user"`
	Access *model.Session `json:"token"`
}

func (h *handlers) signup(c *gin.Context) {
	var in service.RegisterInput
	if !bind(c, &in) {
		return
	}
	user, session, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusCreated, signupResponse{User: user, Access: session})
}

func (h *handlers) login(c *gin.Context) {
	var in service.LoginInput
	if !bind(c, &in) {
		return
	}
	session, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, session)
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- projects ---

func (h *handlers) listProjects(c *gin.Context) {
	projects, err := h.svc.ListProjects(c.Request.Context(), currentUser(c))
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, projects)
}

func (h *handlers) createProject(c *gin.Context) {
	var in service.ProjectInput
	if !bind(c, &in) {
		return
	}
	p, err := h.svc.CreateProject(c.Request.Context(), currentUser(c), in)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusCreated, p)
}

func (h *handlers) getProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetProject(c.Request.Context(), currentUser(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, p)
}

func (h *handlers) updateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch service.ProjectPatch
	if !bind(c, &patch) {
		return
	}
	p, err := h.svc.UpdateProject(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, p)
}

func (h *handlers) deleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProject(c.Request.Context(), currentUser(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- contributors ---

func (h *handlers) addContributor(c *gin.Context) {
	var in service.ContributorInput
	if !bind(c, &in) {
		return
	}
	contributor, err := h.svc.AddContributor(c.Request.Context(), currentUser(c), in)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusCreated, contributor)
}

func (h *handlers) listContributors(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	contributors, err := h.svc.ListContributors(c.Request.Context(), currentUser(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, contributors)
}

func (h *handlers) removeContributor(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	if err := h.svc.RemoveContributor(c.Request.Context(), currentUser(c), projectID, userID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- issues ---

func (h *handlers) listIssues(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	issues, err := h.svc.ListIssues(c.Request.Context(), currentUser(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, issues)
}

func (h *handlers) createIssue(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.IssueInput
	if !bind(c, &in) {
		return
	}
	issue, err := h.svc.CreateIssue(c.Request.Context(), currentUser(c), projectID, in)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusCreated, issue)
}

func (h *handlers) getIssue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	issue, err := h.svc.GetIssue(c.Request.Context(), currentUser(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, issue)
}

func (h *handlers) updateIssue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch service.IssuePatch
	if !bind(c, &patch) {
		return
	}
	issue, err := h.svc.UpdateIssue(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, issue)
}

func (h *handlers) deleteIssue(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteIssue(c.Request.Context(), currentUser(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) issueActivity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.Error(&service.FieldError{Field: "limit", Reason: "must be a non-negative integer"})
			return
		}
		limit = n
	}
	acts, err := h.svc.IssueActivity(c.Request.Context(), currentUser(c), id, limit)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, acts)
}

// --- comments ---

func (h *handlers) listComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	comments, err := h.svc.ListComments(c.Request.Context(), currentUser(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, comments)
}

func (h *handlers) createComment(c *gin.Context) {
	issueID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.CommentInput
	if !bind(c, &in) {
		return
	}
	comment, err := h.svc.CreateComment(c.Request.Context(), currentUser(c), issueID, in)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusCreated, comment)
}

func (h *handlers) updateComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.CommentInput
	if !bind(c, &in) {
		return
	}
	comment, err := h.svc.UpdateComment(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, comment)
}

func (h *handlers) deleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteComment(c.Request.Context(), currentUser(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
