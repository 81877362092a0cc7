package friends

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

// fakeStore keeps directed edges in memory with the same semantics as the
// friendships table.
type fakeStore struct {
	edges map[[2]string]bool
	names map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{edges: map[[2]string]bool{}, names: map[string]string{}}
}

func (f *fakeStore) Add(_ context.Context, followerID, followeeID string) error {
	f.edges[[2]string{followerID, followeeID}] = true
	return nil
}

func (f *fakeStore) Is(_ context.Context, followerID, followeeID string) (bool, error) {
	return f.edges[[2]string{followerID, followeeID}], nil
}

func (f *fakeStore) List(_ context.Context, followerID string) ([]Friend, error) {
	var out []Friend
	for edge := range f.edges {
		if edge[0] == followerID {
			out = append(out, Friend{FolloweeID: edge[1], FolloweeName: f.names[edge[1]]})
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, followerID, followeeID string) error {
	delete(f.edges, [2]string{followerID, followeeID})
	return nil
}

func setupRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api"), store)
	return r
}

func addFriend(t *testing.T, r *gin.Engine, followerID, followeeID string) *httptest.ResponseRecorder {
	t.Helper()
	data, _ := json.Marshal(map[string]string{"followerId": followerID, "followeeId": followeeID})
	req := httptest.NewRequest(http.MethodPost, "/api/add-friend", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func isFriend(t *testing.T, r *gin.Engine, followerID, followeeID string) bool {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet,
		"/api/is-friend?currentUserId="+followerID+"&followeeId="+followeeID, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success  bool `json:"success"`
		IsFriend bool `json:"isFriend"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.IsFriend
}

func TestFriendship_Directional(t *testing.T) {
	r := setupRouter(newFakeStore())

	rr := addFriend(t, r, "u1", "u2")
	require.Equal(t, http.StatusOK, rr.Code)

	// The edge points one way only.
	assert.True(t, isFriend(t, r, "u1", "u2"))
	assert.False(t, isFriend(t, r, "u2", "u1"))
}

func TestAddFriend_Validation(t *testing.T) {
	r := setupRouter(newFakeStore())

	rr := addFriend(t, r, "", "u2")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = addFriend(t, r, "u1", "u1")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListFriends_AbsentActorYieldsEmpty(t *testing.T) {
	store := newFakeStore()
	store.edges[[2]string{"u1", "u2"}] = true
	r := setupRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/friends", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool     `json:"success"`
		Friends []Friend `json:"friends"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Friends)
}

func TestListFriends(t *testing.T) {
	store := newFakeStore()
	store.edges[[2]string{"u1", "u2"}] = true
	store.names["u2"] = "Jordan"
	r := setupRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/friends?currentUserId=u1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Friends []Friend `json:"friends"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Friends, 1)
	assert.Equal(t, "u2", resp.Friends[0].FolloweeID)
	assert.Equal(t, "Jordan", resp.Friends[0].FolloweeName)
}

func TestDeleteFriend_AbsentEdgeIsFine(t *testing.T) {
	r := setupRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodDelete,
		"/api/delete-friend?currentUserId=u1&followeeId=u2", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDeleteFriend_RemovesOneDirection(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store)

	addFriend(t, r, "u1", "u2")
	addFriend(t, r, "u2", "u1")

	req := httptest.NewRequest(http.MethodDelete,
		"/api/delete-friend?currentUserId=u1&followeeId=u2", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.False(t, isFriend(t, r, "u1", "u2"))
	assert.True(t, isFriend(t, r, "u2", "u1"))
}
