package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagao/pagao/result"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestServer(t *testing.T, r *mux.Router) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SendsRequestIDAndBearer(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID string
	r := mux.NewRouter()
	r.HandleFunc("/groups/{id}", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		gotRequestID = req.Header.Get(requestIDHeader)
		assert.Equal(t, "5", mux.Vars(req)["id"])
		writeJSON(w, http.StatusOK, Group{ID: 5, Name: "Flat"})
	}).Methods(http.MethodGet)
	srv := newTestServer(t, r)

	c := NewClient(Options{BaseURL: srv.URL + "/", Token: "abc"})
	res := c.GetGroup(context.Background(), 5)

	assert.Equal(t, result.Success[Group]{Data: Group{ID: 5, Name: "Flat"}}, res)
	assert.Equal(t, "Bearer abc", gotAuth)
	_, err := uuid.Parse(gotRequestID)
	assert.NoError(t, err)
}

func TestClient_BearerPrefixNotDuplicated(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bearer abc", bearer("Bearer abc"))
	assert.Equal(t, "bearer abc", bearer("bearer abc"))
	assert.Equal(t, "Bearer abc", bearer("abc"))
}

func TestClient_RotatesTokenFromAuthenticatedResponse(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/groups", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Authorization", "Bearer rotated")
		writeJSON(w, http.StatusOK, []Group{{ID: 1}})
	}).Methods(http.MethodGet)
	srv := newTestServer(t, r)

	var mu sync.Mutex
	var refreshed []string
	c := NewClient(Options{
		BaseURL: srv.URL,
		Token:   "Bearer old",
		OnTokenRefresh: func(token string) {
			mu.Lock()
			refreshed = append(refreshed, token)
			mu.Unlock()
		},
	})

	res := c.GetGroups(context.Background())
	require.True(t, result.IsSuccess(res))
	assert.Equal(t, "Bearer rotated", c.Token())
	assert.Equal(t, []string{"Bearer rotated"}, refreshed)
}

func TestClient_NoRotationWithoutSession(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Authorization", "Bearer fresh")
		writeJSON(w, http.StatusOK, AuthResponse{UserID: 3, Name: "Ana"})
	}).Methods(http.MethodPost)
	srv := newTestServer(t, r)

	c := NewClient(Options{BaseURL: srv.URL})
	res := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})

	success, ok := res.(result.Success[result.ResponseWithToken[AuthResponse]])
	require.True(t, ok)
	assert.Equal(t, "Bearer fresh", success.Data.Token)
	// Handing the token over is the caller's job for login
	assert.Empty(t, c.Token())
}

func TestClient_PostsJSONBody(t *testing.T) {
	t.Parallel()

	var got NewReceipt
	r := mux.NewRouter()
	r.HandleFunc("/receipts", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, Receipt{ID: 9, Name: got.Name})
	}).Methods(http.MethodPost)
	srv := newTestServer(t, r)

	c := NewClient(Options{BaseURL: srv.URL, Token: "t"})
	res := c.CreateReceipt(context.Background(), NewReceipt{
		Name:    "Dinner",
		GroupID: 4,
		Participations: []Participation{
			{MemberID: 1, Paid: 30, Owed: 15},
			{MemberID: 2, Paid: 0, Owed: 15},
		},
	})

	require.True(t, result.IsSuccess(res))
	assert.Equal(t, 4, got.GroupID)
	assert.Len(t, got.Participations, 2)
}

func TestClient_SetUserToMember_NoContent(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/members/{id}/user", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPut)
	srv := newTestServer(t, r)

	c := NewClient(Options{BaseURL: srv.URL, Token: "t"})
	assert.Equal(t, result.SuccessNoData[Member]{}, c.SetUserToMember(context.Background(), 12))
}

func TestClient_GetReceiptComputesTotal(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/receipts/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Receipt{
			ID:   3,
			Name: "Groceries",
			Participations: []Participation{
				{MemberID: 1, Paid: 12.5},
				{MemberID: 2, Paid: 7.5},
			},
		})
	}).Methods(http.MethodGet)
	srv := newTestServer(t, r)

	c := NewClient(Options{BaseURL: srv.URL})
	res := c.GetReceipt(context.Background(), 3)

	success, ok := res.(result.Success[Receipt])
	require.True(t, ok)
	require.NotNil(t, success.Data.TotalPaid)
	assert.InDelta(t, 20.0, *success.Data.TotalPaid, 0.0001)
}

func TestClient_ServerErrorMessage(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/groups", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Group already exists"})
	}).Methods(http.MethodPost)
	srv := newTestServer(t, r)

	c := NewClient(Options{BaseURL: srv.URL, Token: "t"})
	res := c.CreateGroup(context.Background(), NewGroup{Name: "Trip"})
	assert.Equal(t, result.Error[Group]{Message: "Group already exists"}, res)
}

func TestClient_CancelledContext(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	r.HandleFunc("/groups", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, []Group{})
	})
	srv := newTestServer(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Options{BaseURL: srv.URL, RateLimit: 1, RateBurst: 1})
	res := c.GetGroups(ctx)
	msg, ok := result.ErrorMessage(res)
	require.True(t, ok)
	assert.Contains(t, msg, "context canceled")
}
