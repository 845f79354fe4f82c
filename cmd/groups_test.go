package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/connectivity"
)

var (
	ana  = client.Member{ID: 11, Name: "Ana", Balance: 12.5}
	luis = client.Member{ID: 12, Name: "Luis", Balance: -12.5}
	eva  = client.Member{ID: 13, Name: "Eva"}
)

// groupServer serves group 5 "Trip". While down is set every group call
// fails with the given status.
type groupServer struct {
	down   atomic.Int32
	joined atomic.Int32
}

func (g *groupServer) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/groups", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, []client.Group{{ID: 5, Name: "Trip"}, {ID: 6, Name: "Flat"}})
	}).Methods(http.MethodGet)
	r.HandleFunc("/groups", func(w http.ResponseWriter, req *http.Request) {
		var group client.NewGroup
		_ = json.NewDecoder(req.Body).Decode(&group)
		writeJSON(w, http.StatusCreated, client.Group{ID: 7, Name: group.Name, Description: group.Description})
	}).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id}", func(w http.ResponseWriter, req *http.Request) {
		if status := int(g.down.Load()); status != 0 {
			writeError(w, status, "Service unavailable")
			return
		}
		if mux.Vars(req)["id"] != "5" {
			writeError(w, http.StatusNotFound, "Group not found")
			return
		}
		writeJSON(w, http.StatusOK, client.Group{ID: 5, Name: "Trip"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/members/group/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, []client.Member{ana, luis, eva})
	}).Methods(http.MethodGet)
	r.HandleFunc("/members/available/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, []client.Member{luis, eva})
	}).Methods(http.MethodGet)
	r.HandleFunc("/members/{id}/user", func(w http.ResponseWriter, req *http.Request) {
		g.joined.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPut)
	return r
}

func TestRunGroups(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, (&groupServer{}).router())

	require.NoError(t, RunGroups(context.Background(), env.Env, nil))
	assert.Contains(t, env.out.String(), "Trip")
	assert.Contains(t, env.out.String(), "Total: 2 groups")
}

func TestRunGroups_JSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, (&groupServer{}).router())

	require.NoError(t, RunGroups(context.Background(), env.Env, []string{"--json"}))

	var groups []client.Group
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &groups))
	assert.Len(t, groups, 2)
}

func TestRunGroup_CachesAndFallsBack(t *testing.T) {
	t.Parallel()

	srv := &groupServer{}
	env := newTestEnv(t, srv.router())

	require.NoError(t, RunGroup(context.Background(), env.Env, []string{"5"}))
	assert.Contains(t, env.out.String(), "Luis")
	assert.NotContains(t, env.out.String(), "cached")

	srv.down.Store(http.StatusInternalServerError)
	env.out.Reset()

	require.NoError(t, RunGroup(context.Background(), env.Env, []string{"5", "--json"}))

	var out groupOutput
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &out))
	assert.True(t, out.Cached)
	assert.NotNil(t, out.FetchedAt)
	assert.Equal(t, "Trip", out.Group.Name)
	assert.Len(t, out.Members, 3)
}

func TestRunGroup_OfflineUsesCache(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, (&groupServer{}).router())
	require.NoError(t, RunGroup(context.Background(), env.Env, []string{"5"}))

	env.Online = connectivity.Static(false)
	env.out.Reset()

	require.NoError(t, RunGroup(context.Background(), env.Env, []string{"5"}))
	assert.Contains(t, env.out.String(), "Trip (cached")
}

func TestRunGroup_SessionExpiredSkipsCache(t *testing.T) {
	t.Parallel()

	srv := &groupServer{}
	env := newTestEnv(t, srv.router())
	require.NoError(t, RunGroup(context.Background(), env.Env, []string{"5"}))

	srv.down.Store(http.StatusUnauthorized)
	env.out.Reset()

	err := RunGroup(context.Background(), env.Env, []string{"5"})
	require.Error(t, err)
	assert.True(t, IsSessionExpired(err))
	assert.Empty(t, env.out.String())
}

func TestRunGroup_NotFoundWithoutCache(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, (&groupServer{}).router())

	err := RunGroup(context.Background(), env.Env, []string{"9"})
	assert.EqualError(t, err, "Group not found")
}

func TestRunGroup_Usage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, (&groupServer{}).router())

	var usage *UsageError
	assert.ErrorAs(t, RunGroup(context.Background(), env.Env, nil), &usage)
	assert.Error(t, RunGroup(context.Background(), env.Env, []string{"abc"}))
}

func TestRunGroupCreate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, (&groupServer{}).router())

	err := RunGroup(context.Background(), env.Env, []string{"create", "--name", "  Ski  ", "--description", "Alps"})
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "Created group Ski (#7)")
	assert.Contains(t, env.out.String(), "pagao join 7")
}

func TestRunGroupCreate_NameRequired(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, (&groupServer{}).router())

	err := RunGroupCreate(context.Background(), env.Env, []string{"--name", "   "})
	assert.EqualError(t, err, "Group name is required")
}

func TestRunJoin_WithMemberFlag(t *testing.T) {
	t.Parallel()

	srv := &groupServer{}
	env := newTestEnv(t, srv.router())

	require.NoError(t, RunJoin(context.Background(), env.Env, []string{"5", "--member", "12"}))
	assert.Equal(t, int32(1), srv.joined.Load())
	assert.Contains(t, env.out.String(), "Joined Trip as Luis")
	assert.Empty(t, env.prompter.prompted)
}

func TestRunJoin_Prompts(t *testing.T) {
	t.Parallel()

	srv := &groupServer{}
	env := newTestEnv(t, srv.router())
	env.prompter.member = eva

	require.NoError(t, RunJoin(context.Background(), env.Env, []string{"5"}))
	assert.Equal(t, []string{"Who are you in Trip?"}, env.prompter.prompted)
	assert.Contains(t, env.out.String(), "Joined Trip as Eva")
}

func TestRunJoin_TakenMember(t *testing.T) {
	t.Parallel()

	srv := &groupServer{}
	env := newTestEnv(t, srv.router())

	// Ana already belongs to a user
	err := RunJoin(context.Background(), env.Env, []string{"5", "--member", "11"})
	assert.EqualError(t, err, "Please select a valid member")
	assert.Zero(t, srv.joined.Load())
	assert.False(t, strings.Contains(env.out.String(), "Joined"))
}
