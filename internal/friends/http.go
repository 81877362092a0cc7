package friends

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/pinpost-app/pinpost-backend/internal/api/http"
)

type Store interface {
	Add(ctx context.Context, followerID, followeeID string) error
	Is(ctx context.Context, followerID, followeeID string) (bool, error)
	List(ctx context.Context, followerID string) ([]Friend, error)
	Delete(ctx context.Context, followerID, followeeID string) error
}

type Handler struct {
	store Store
}

func Register(rg *gin.RouterGroup, store Store) {
	h := &Handler{store: store}

	rg.POST("/add-friend", h.add)
	rg.GET("/friends", h.list)
	rg.GET("/is-friend", h.isFriend)
	rg.DELETE("/delete-friend", h.delete)
}

type addReq struct {
	FollowerID string `json:"followerId"`
	FolloweeID string `json:"followeeId"`
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "invalid body")
		return
	}

	followerID := strings.TrimSpace(req.FollowerID)
	followeeID := strings.TrimSpace(req.FolloweeID)
	if followerID == "" || followeeID == "" {
		httpapi.BadRequest(c, "followerId and followeeId are required")
		return
	}
	if followerID == followeeID {
		httpapi.BadRequest(c, "cannot follow yourself")
		return
	}

	if err := h.store.Add(c.Request.Context(), followerID, followeeID); err != nil {
		httpapi.ServerError(c, "add friend", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "friend added"})
}

func (h *Handler) list(c *gin.Context) {
	followerID := strings.TrimSpace(c.Query("currentUserId"))

	// Absent actor yields an empty collection, not a failure.
	if followerID == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "friends": []Friend{}})
		return
	}

	items, err := h.store.List(c.Request.Context(), followerID)
	if err != nil {
		httpapi.ServerError(c, "list friends", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "friends": items})
}

func (h *Handler) isFriend(c *gin.Context) {
	followerID := strings.TrimSpace(c.Query("currentUserId"))
	followeeID := strings.TrimSpace(c.Query("followeeId"))
	if followerID == "" || followeeID == "" {
		httpapi.BadRequest(c, "currentUserId and followeeId are required")
		return
	}

	isFriend, err := h.store.Is(c.Request.Context(), followerID, followeeID)
	if err != nil {
		httpapi.ServerError(c, "is friend", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "isFriend": isFriend})
}

func (h *Handler) delete(c *gin.Context) {
	followerID := strings.TrimSpace(c.Query("currentUserId"))
	followeeID := strings.TrimSpace(c.Query("followeeId"))
	if followerID == "" || followeeID == "" {
		httpapi.BadRequest(c, "currentUserId and followeeId are required")
		return
	}

	if err := h.store.Delete(c.Request.Context(), followerID, followeeID); err != nil {
		httpapi.ServerError(c, "delete friend", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
