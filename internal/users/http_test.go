package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore mirrors the upsert semantics of the users table: one row per
// uid, no matter how often the same uid is created.
type fakeStore struct {
	rows map[string]UpsertUser
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]UpsertUser{}}
}

func (f *fakeStore) Upsert(_ context.Context, u UpsertUser) error {
	f.rows[u.UID] = u
	return nil
}

func (f *fakeStore) Update(_ context.Context, u UpsertUser) (bool, error) {
	if _, ok := f.rows[u.UID]; !ok {
		return false, nil
	}
	f.rows[u.UID] = u
	return true, nil
}

func setupRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api"), store)
	return r
}

func sendUser(r *gin.Engine, method string, body map[string]string) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, "/api/user", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateUser_Idempotent(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store)

	body := map[string]string{"uid": "u1", "email": "a@b.com"}

	rr := sendUser(r, http.MethodPost, body)
	require.Equal(t, http.StatusCreated, rr.Code)

	// Same call again: still 201, still exactly one row.
	rr = sendUser(r, http.MethodPost, body)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, store.rows, 1)
}

func TestCreateUser_Validation(t *testing.T) {
	r := setupRouter(newFakeStore())

	rr := sendUser(r, http.MethodPost, map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = sendUser(r, http.MethodPost, map[string]string{"uid": "u1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateUser(t *testing.T) {
	store := newFakeStore()
	store.rows["u1"] = UpsertUser{UID: "u1", Email: "a@b.com"}
	r := setupRouter(store)

	rr := sendUser(r, http.MethodPut, map[string]string{
		"uid":         "u1",
		"email":       "a@b.com",
		"displayName": "Jordan",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Jordan", store.rows["u1"].DisplayName)
}

func TestUpdateUser_NotFound(t *testing.T) {
	r := setupRouter(newFakeStore())

	rr := sendUser(r, http.MethodPut, map[string]string{"uid": "ghost", "email": "g@b.com"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
