package images

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpapi "github.com/pinpost-app/pinpost-backend/internal/api/http"
	"github.com/pinpost-app/pinpost-backend/internal/blob"
)

// Uploader is the container client surface the handlers use.
type Uploader interface {
	Upload(ctx context.Context, payload blob.Payload, objectName string) (string, error)
	WithSAS(objectURL string) string
	Owns(objectURL string) bool
}

// PostStore records uploaded images against posts.
type PostStore interface {
	AddImage(ctx context.Context, postID uuid.UUID, imageURL string) error
}

type Handler struct {
	photos   Uploader
	profiles Uploader
	store    PostStore
	now      func() time.Time
}

func Register(rg *gin.RouterGroup, photos, profiles Uploader, store PostStore) {
	h := &Handler{photos: photos, profiles: profiles, store: store, now: time.Now}

	rg.POST("/image", h.uploadPostImage)
	rg.POST("/image-user", h.uploadProfileImage)
	rg.GET("/safeimage", h.safeImage)
}

type imageReq struct {
	Image  string `json:"image"`
	Kind   string `json:"kind"`
	PostID string `json:"postId"`
	UID    string `json:"uid"`
}

func (r *imageReq) payload() (blob.Payload, error) {
	if strings.TrimSpace(r.Image) == "" {
		return blob.Payload{}, fmt.Errorf("image is required")
	}
	if r.Kind != "" {
		return blob.NewPayload(r.Kind, r.Image)
	}
	return blob.Classify(r.Image), nil
}

func (h *Handler) uploadPostImage(c *gin.Context) {
	var req imageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "invalid body")
		return
	}

	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		httpapi.BadRequest(c, "postId must be a valid UUID")
		return
	}
	payload, err := req.payload()
	if err != nil {
		httpapi.BadRequest(c, err.Error())
		return
	}

	objectName := fmt.Sprintf("%s_%d", postID, h.now().UnixMilli())
	url, err := h.photos.Upload(c.Request.Context(), payload, objectName)
	if err != nil {
		blobError(c, "upload post image", err)
		return
	}

	if err := h.store.AddImage(c.Request.Context(), postID, url); err != nil {
		httpapi.ServerError(c, "record post image", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "image uploaded", "url": url})
}

// uploadProfileImage stores the picture and returns its URL; the client
// persists it on the user record through PUT /user.
func (h *Handler) uploadProfileImage(c *gin.Context) {
	var req imageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, "invalid body")
		return
	}

	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		httpapi.BadRequest(c, "uid is required")
		return
	}
	payload, err := req.payload()
	if err != nil {
		httpapi.BadRequest(c, err.Error())
		return
	}

	objectName := fmt.Sprintf("%s_%d", uid, h.now().UnixMilli())
	url, err := h.profiles.Upload(c.Request.Context(), payload, objectName)
	if err != nil {
		blobError(c, "upload profile image", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "image uploaded", "url": url})
}

func (h *Handler) safeImage(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		httpapi.BadRequest(c, "url is required")
		return
	}

	signer := h.photos
	if h.profiles != nil && h.profiles.Owns(url) {
		signer = h.profiles
	}

	c.JSON(http.StatusOK, gin.H{"url": signer.WithSAS(url)})
}

// blobError surfaces the upstream status and body; unlike database errors,
// blob store responses carry no internal detail worth hiding.
func blobError(c *gin.Context, op string, err error) {
	httpapi.LogError(op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
