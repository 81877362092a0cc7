package users

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/pinpost-app/pinpost-backend/internal/api/http"
)

// Store is the slice of the repo the handlers need; tests substitute fakes.
type Store interface {
	Upsert(ctx context.Context, u UpsertUser) error
	Update(ctx context.Context, u UpsertUser) (bool, error)
}

type Handler struct {
	store Store
}

func Register(rg *gin.RouterGroup, store Store) {
	h := &Handler{store: store}

	rg.POST("/user", h.create)
	rg.PUT("/user", h.update)
}

type userReq struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

func (h *Handler) create(c *gin.Context) {
	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "invalid body")
		return
	}
	if strings.TrimSpace(req.UID) == "" || strings.TrimSpace(req.Email) == "" {
		httpapi.BadRequest(c, "uid and email are required")
		return
	}

	err := h.store.Upsert(c.Request.Context(), UpsertUser{
		UID:         strings.TrimSpace(req.UID),
		Email:       strings.TrimSpace(req.Email),
		DisplayName: strings.TrimSpace(req.DisplayName),
		PhotoURL:    strings.TrimSpace(req.PhotoURL),
	})
	if err != nil {
		httpapi.ServerError(c, "create user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "user created"})
}

func (h *Handler) update(c *gin.Context) {
	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "invalid body")
		return
	}
	if strings.TrimSpace(req.UID) == "" {
		httpapi.BadRequest(c, "uid is required")
		return
	}

	found, err := h.store.Update(c.Request.Context(), UpsertUser{
		UID:         strings.TrimSpace(req.UID),
		Email:       strings.TrimSpace(req.Email),
		DisplayName: strings.TrimSpace(req.DisplayName),
		PhotoURL:    strings.TrimSpace(req.PhotoURL),
	})
	if err != nil {
		httpapi.ServerError(c, "update user", err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user updated"})
}
