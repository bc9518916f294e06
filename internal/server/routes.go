package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type route struct {
	method string
	path   string
	public bool
	handle gin.HandlerFunc
}

// routes is the full HTTP surface. Every route not marked public runs
// behind requireAuth.
func (h *handlers) routes() []route {
	return []route{
		// Accounts
		{http.MethodPost, "/signup", true, h.signup},
		{http.MethodPost, "/login", true, h.login},
		{http.MethodPost, "/logout", false, h.logout},

		// Projects
		{http.MethodGet, "/projects", false, h.listProjects},
		{http.MethodPost, "/projects", false, h.createProject},
		{http.MethodGet, "/projects/:id", false, h.getProject},
		{http.MethodPut, "/projects/:id", false, h.updateProject},
		{http.MethodDelete, "/projects/:id", false, h.deleteProject},

		// Contributors
		{http.MethodPost, "/contributors", false, h.addContributor},
		{http.MethodGet, "/projects/:id/users", false, h.listContributors},
		{http.MethodDelete, "/projects/:id/users/:user_id", false, h.removeContributor},

		// Issues
		{http.MethodGet, "/projects/:id/issues", false, h.listIssues},
		{http.MethodPost, "/projects/:id/issues", false, h.createIssue},
		{http.MethodGet, "/issues/:id", false, h.getIssue},
		{http.MethodPut, "/issues/:id", false, h.updateIssue},
		{http.MethodDelete, "/issues/:id", false, h.deleteIssue},
		{http.MethodGet, "/issues/:id/activity", false, h.issueActivity},

		// Comments
		{http.MethodGet, "/issues/:id/comments", false, h.listComments},
		{http.MethodPost, "/issues/:id/comments", false, h.createComment},
		{http.MethodPut, "/comments/:id", false, h.updateComment},
		{http.MethodDelete, "/comments/:id", false, h.deleteComment},
	}
}
