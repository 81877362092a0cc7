package posts

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpapi "github.com/pinpost-app/pinpost-backend/internal/api/http"
	"github.com/pinpost-app/pinpost-backend/internal/auth"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store is what the handlers need from the repo; tests substitute fakes.
type Store interface {
	Create(ctx context.Context, in CreateInput) (uuid.UUID, error)
	Update(ctx context.Context, in UpdateInput) error
	Delete(ctx context.Context, postID uuid.UUID) ([]string, error)
	ByUser(ctx context.Context, userID string) ([]Post, error)
	Explore(ctx context.Context, viewerID string, offset, limit int) ([]Post, error)
}

// BlobDeleter removes uploaded objects once their rows are gone.
type BlobDeleter interface {
	Delete(ctx context.Context, objectURL string) error
	Owns(objectURL string) bool
}

type Handler struct {
	store Store
	blobs BlobDeleter
}

func Register(rg *gin.RouterGroup, store Store, blobs BlobDeleter) {
	h := &Handler{store: store, blobs: blobs}

	rg.POST("/add-post", h.create)
	rg.PUT("/edit-post", h.update)
	rg.DELETE("/delete-post", h.delete)
	rg.GET("/posts", h.byUser)
	rg.GET("/explore", h.explore)
}

type postReq struct {
	PostID         string     `json:"postId"`
	UserID         string     `json:"userId"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	LatitudeDelta  *float64   `json:"latitudeDelta"`
	LongitudeDelta *float64   `json:"longitudeDelta"`
	Private        bool       `json:"private"`
	EventStart     *time.Time `json:"event_start"`
	EventEnd       *time.Time `json:"event_end"`
	Tags           []string   `json:"tags"`
}

func (r *postReq) validate(requireType bool) string {
	switch {
	case strings.TrimSpace(r.UserID) == "":
		return "userId is required"
	case strings.TrimSpace(r.Title) == "":
		return "title is required"
	case r.Latitude == nil || r.Longitude == nil:
		return "latitude and longitude are required"
	case r.LatitudeDelta == nil || r.LongitudeDelta == nil:
		return "latitudeDelta and longitudeDelta are required"
	}
	if requireType && r.Type != TypePost && r.Type != TypeEvent {
		return "type must be 'post' or 'event'"
	}
	return ""
}

func (h *Handler) create(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "invalid body")
		return
	}
	if msg := req.validate(true); msg != "" {
		httpapi.BadRequest(c, msg)
		return
	}

	postID, err := h.store.Create(c.Request.Context(), CreateInput{
		UserID:         strings.TrimSpace(req.UserID),
		Type:           req.Type,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		LatitudeDelta:  *req.LatitudeDelta,
		LongitudeDelta: *req.LongitudeDelta,
		Private:        req.Private,
		EventStart:     req.EventStart,
		EventEnd:       req.EventEnd,
		Tags:           req.Tags,
	})
	if err != nil {
		httpapi.ServerError(c, "create post", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "postId": postID.String()})
}

func (h *Handler) update(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "invalid body")
		return
	}
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		httpapi.BadRequest(c, "postId must be a valid UUID")
		return
	}
	if msg := req.validate(false); msg != "" {
		httpapi.BadRequest(c, msg)
		return
	}

	err = h.store.Update(c.Request.Context(), UpdateInput{
		PostID:         postID,
		UserID:         strings.TrimSpace(req.UserID),
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		LatitudeDelta:  *req.LatitudeDelta,
		LongitudeDelta: *req.LongitudeDelta,
		Private:        req.Private,
		EventStart:     req.EventStart,
		EventEnd:       req.EventEnd,
		Tags:           req.Tags,
	})
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "post not found"})
		return
	}
	if err != nil {
		httpapi.ServerError(c, "update post", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "postId": postID.String()})
}

func (h *Handler) delete(c *gin.Context) {
	postID, err := uuid.Parse(c.Query("postId"))
	if err != nil {
		httpapi.BadRequest(c, "postId must be a valid UUID")
		return
	}

	imageURLs, err := h.store.Delete(c.Request.Context(), postID)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "post not found"})
		return
	}
	if err != nil {
		httpapi.ServerError(c, "delete post", err)
		return
	}

	// Rows are gone; blob cleanup is best effort, the nightly sweep picks up
	// anything missed here.
	if h.blobs != nil {
		for _, u := range imageURLs {
			if !h.blobs.Owns(u) {
				continue
			}
			if err := h.blobs.Delete(c.Request.Context(), u); err != nil {
				log.Printf("delete post %s: blob %s: %v", postID, u, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) byUser(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		httpapi.BadRequest(c, "userId is required")
		return
	}

	items, err := h.store.ByUser(c.Request.Context(), userID)
	if err != nil {
		httpapi.ServerError(c, "list posts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "posts": items})
}

func (h *Handler) explore(c *gin.Context) {
	viewerID := strings.TrimSpace(c.Query("userId"))
	if viewerID == "" {
		viewerID = auth.UID(c)
	}

	offset := intQuery(c, "offset", 0)
	limit := intQuery(c, "limit", defaultPageSize)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	items, err := h.store.Explore(c.Request.Context(), viewerID, offset, limit)
	if err != nil {
		httpapi.ServerError(c, "explore", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "posts": items})
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
