package images

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpost-app/pinpost-backend/internal/blob"
)

type fakeUploader struct {
	base     string
	uploaded []string // object names
	payloads []blob.Payload
}

func (f *fakeUploader) Upload(_ context.Context, p blob.Payload, objectName string) (string, error) {
	f.uploaded = append(f.uploaded, objectName)
	f.payloads = append(f.payloads, p)
	return f.base + "/" + objectName, nil
}

func (f *fakeUploader) WithSAS(url string) string {
	if strings.Contains(url, "?") {
		return url
	}
	return url + "?sig=fake"
}

func (f *fakeUploader) Owns(url string) bool {
	return strings.HasPrefix(url, f.base+"/")
}

type fakePostStore struct {
	images map[uuid.UUID][]string
}

func (f *fakePostStore) AddImage(_ context.Context, postID uuid.UUID, url string) error {
	if f.images == nil {
		f.images = map[uuid.UUID][]string{}
	}
	f.images[postID] = append(f.images[postID], url)
	return nil
}

func setupRouter(photos, profiles Uploader, store PostStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api"), photos, profiles, store)
	return r
}

func send(r *gin.Engine, path string, body map[string]string) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestUploadPostImage(t *testing.T) {
	photos := &fakeUploader{base: "https://store/photos"}
	store := &fakePostStore{}
	r := setupRouter(photos, &fakeUploader{base: "https://store/profiles"}, store)

	postID := uuid.New()
	rr := send(r, "/api/image", map[string]string{
		"image":  "data:image/png;base64,aGk=",
		"postId": postID.String(),
	})

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "https://store/photos/"+postID.String()+"_"))

	// The uploaded URL is recorded against the post.
	require.Len(t, store.images[postID], 1)
	assert.Equal(t, resp.URL, store.images[postID][0])

	require.Len(t, photos.payloads, 1)
	assert.Equal(t, blob.KindDataURL, photos.payloads[0].Kind)
}

func TestUploadPostImage_ExplicitKind(t *testing.T) {
	photos := &fakeUploader{base: "https://store/photos"}
	r := setupRouter(photos, &fakeUploader{base: "https://store/profiles"}, &fakePostStore{})

	rr := send(r, "/api/image", map[string]string{
		"image":  "https://elsewhere.example.com/pic.png",
		"kind":   "uri",
		"postId": uuid.New().String(),
	})

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, photos.payloads, 1)
	assert.Equal(t, blob.KindURI, photos.payloads[0].Kind)
}

func TestUploadPostImage_BadPostID(t *testing.T) {
	r := setupRouter(&fakeUploader{}, &fakeUploader{}, &fakePostStore{})

	rr := send(r, "/api/image", map[string]string{
		"image":  "data:image/png;base64,aGk=",
		"postId": "not-a-uuid",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadProfileImage_NoRow(t *testing.T) {
	profiles := &fakeUploader{base: "https://store/profiles"}
	store := &fakePostStore{}
	r := setupRouter(&fakeUploader{base: "https://store/photos"}, profiles, store)

	rr := send(r, "/api/image-user", map[string]string{
		"image": "data:image/jpeg;base64,aGk=",
		"uid":   "u1",
	})

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, profiles.uploaded, 1)
	assert.True(t, strings.HasPrefix(profiles.uploaded[0], "u1_"))
	// Profile uploads return the URL only; persisting it is the client's
	// follow-up PUT /user.
	assert.Empty(t, store.images)
}

func TestSafeImage(t *testing.T) {
	photos := &fakeUploader{base: "https://store/photos"}
	profiles := &fakeUploader{base: "https://store/profiles"}
	r := setupRouter(photos, profiles, &fakePostStore{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/safeimage?url=https://store/photos/p1_1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "https://store/photos/p1_1?sig=fake", resp.URL)
}

func TestSafeImage_MissingURL(t *testing.T) {
	r := setupRouter(&fakeUploader{}, &fakeUploader{}, &fakePostStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/safeimage", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
