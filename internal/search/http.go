package search

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/pinpost-app/pinpost-backend/internal/api/http"
	"github.com/pinpost-app/pinpost-backend/internal/users"
)

type Handler struct {
	svc *Service
}

func Register(rg *gin.RouterGroup, svc *Service) {
	h := &Handler{svc: svc}

	rg.GET("/user-search", h.userSearch)
	rg.GET("/user-tag-search", h.userTagSearch)
}

func (h *Handler) userSearch(c *gin.Context) {
	term := strings.TrimSpace(c.Query("searchTerm"))
	if term == "" {
		// No term, no suggestions.
		c.JSON(http.StatusOK, []users.Summary{})
		return
	}

	out, err := h.svc.Users(c.Request.Context(), term)
	if err != nil {
		httpapi.ServerError(c, "user search", err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) userTagSearch(c *gin.Context) {
	term := strings.TrimSpace(c.Query("searchTerm"))
	if term == "" {
		c.JSON(http.StatusOK, Combined{Users: []users.Summary{}, Tags: []string{}})
		return
	}

	out, err := h.svc.UsersAndTags(c.Request.Context(), term)
	if err != nil {
		httpapi.ServerError(c, "user tag search", err)
		return
	}

	c.JSON(http.StatusOK, out)
}
