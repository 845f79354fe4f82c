package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagao/pagao/client"
)

type receiptServer struct {
	groupServer
	failReceipts atomic.Bool

	mu      sync.Mutex
	created []client.NewReceipt
}

func (s *receiptServer) router() *mux.Router {
	r := s.groupServer.router()
	r.HandleFunc("/receipts/group/{id}", func(w http.ResponseWriter, req *http.Request) {
		if s.failReceipts.Load() {
			writeError(w, http.StatusBadGateway, "Upstream failed")
			return
		}
		total := 30.0
		writeJSON(w, http.StatusOK, []client.Receipt{
			{ID: 1, Name: "Dinner", TotalPaid: &total},
			{ID: 2, Name: "Taxi", Participations: []client.Participation{{MemberID: 11, Paid: 12.5, Owed: 6.25}, {MemberID: 12, Owed: 6.25}}},
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/receipts/{id}", func(w http.ResponseWriter, req *http.Request) {
		groupID := 5
		writeJSON(w, http.StatusOK, client.Receipt{
			ID:      3,
			Name:    "Groceries",
			GroupID: &groupID,
			Participations: []client.Participation{
				{MemberID: 11, Paid: 20, Owed: 10},
				{MemberID: 99, Owed: 10},
			},
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/receipts", func(w http.ResponseWriter, req *http.Request) {
		var draft client.NewReceipt
		if err := json.NewDecoder(req.Body).Decode(&draft); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.mu.Lock()
		s.created = append(s.created, draft)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, client.Receipt{
			ID:             9,
			Name:           draft.Name,
			GroupID:        &draft.GroupID,
			Participations: draft.Participations,
		})
	}).Methods(http.MethodPost)
	return r
}

func (s *receiptServer) drafts() []client.NewReceipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.NewReceipt(nil), s.created...)
}

func TestRunReceipts_ListsAndCaches(t *testing.T) {
	t.Parallel()

	srv := &receiptServer{}
	env := newTestEnv(t, srv.router())

	require.NoError(t, RunReceipts(context.Background(), env.Env, []string{"5"}))
	assert.Contains(t, env.out.String(), "Dinner")
	assert.Contains(t, env.out.String(), "Total: 2 receipts, 42.50")

	srv.failReceipts.Store(true)
	env.out.Reset()

	require.NoError(t, RunReceipts(context.Background(), env.Env, []string{"5"}))
	assert.Contains(t, env.out.String(), "(cached")
	assert.Contains(t, env.out.String(), "Taxi")
}

func TestRunReceipts_ErrorWithoutCache(t *testing.T) {
	t.Parallel()

	srv := &receiptServer{}
	srv.failReceipts.Store(true)
	env := newTestEnv(t, srv.router())

	err := RunReceipts(context.Background(), env.Env, []string{"5"})
	assert.EqualError(t, err, "Upstream failed")
}

func TestRunReceipt_ShowsMemberNames(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, (&receiptServer{}).router())

	require.NoError(t, RunReceipt(context.Background(), env.Env, []string{"3"}))

	out := env.out.String()
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Total: 20.00")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "member #99")
}

func TestRunReceiptCreate_SplitsEvenly(t *testing.T) {
	t.Parallel()

	srv := &receiptServer{}
	env := newTestEnv(t, srv.router())

	err := RunReceipt(context.Background(), env.Env,
		[]string{"create", "5", "--name", "Dinner", "--total", "45.5", "--payer", "11"})
	require.NoError(t, err)

	drafts := srv.drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, 5, drafts[0].GroupID)
	assert.Equal(t, "Dinner", drafts[0].Name)
	assert.Equal(t, []client.Participation{
		{MemberID: 11, Paid: 45.5, Owed: 15.17},
		{MemberID: 12, Owed: 15.17},
		{MemberID: 13, Owed: 15.16},
	}, drafts[0].Participations)
	assert.Contains(t, env.out.String(), "Created receipt Dinner (#9) for 45.50")
}

func TestRunReceiptCreate_PromptsForPayer(t *testing.T) {
	t.Parallel()

	srv := &receiptServer{}
	env := newTestEnv(t, srv.router())
	env.prompter.member = luis

	err := RunReceiptCreate(context.Background(), env.Env, []string{"5", "--name", "Taxi", "--total", "9"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Who paid?"}, env.prompter.prompted)
	require.Len(t, srv.drafts(), 1)
	assert.Equal(t, 9.0, srv.drafts()[0].Participations[1].Paid)
}

func TestRunReceiptCreate_ExplicitShares(t *testing.T) {
	t.Parallel()

	srv := &receiptServer{}
	env := newTestEnv(t, srv.router())

	err := RunReceiptCreate(context.Background(), env.Env, []string{
		"5", "--name", "Tickets",
		"--share", "11:20:10",
		"--share", "13:0:10",
	})
	require.NoError(t, err)

	require.Len(t, srv.drafts(), 1)
	assert.Equal(t, []client.Participation{
		{MemberID: 11, Paid: 20, Owed: 10},
		{MemberID: 13, Owed: 10},
	}, srv.drafts()[0].Participations)
}

func TestRunReceiptCreate_UnbalancedNeverSubmits(t *testing.T) {
	t.Parallel()

	srv := &receiptServer{}
	env := newTestEnv(t, srv.router())

	err := RunReceiptCreate(context.Background(), env.Env, []string{
		"5", "--name", "Tickets", "--share", "11:20:5",
	})
	assert.EqualError(t, err, "Total paid must equal total owed")
	assert.Empty(t, srv.drafts())
}

func TestRunReceiptCreate_UnknownPayer(t *testing.T) {
	t.Parallel()

	srv := &receiptServer{}
	env := newTestEnv(t, srv.router())

	err := RunReceiptCreate(context.Background(), env.Env, []string{"5", "--name", "X", "--total", "10", "--payer", "99"})
	assert.EqualError(t, err, "Payer must be a member of the group")
	assert.Empty(t, srv.drafts())
}

func TestRunReceiptCreate_Usage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, (&receiptServer{}).router())

	var usage *UsageError
	assert.ErrorAs(t, RunReceiptCreate(context.Background(), env.Env, []string{"5", "--name", "X"}), &usage)
}

func TestShareFlag(t *testing.T) {
	t.Parallel()

	var s shareFlag
	require.NoError(t, s.Set("3:12.5:6.25"))
	require.NoError(t, s.Set("4:0:6.25"))
	assert.Equal(t, "3:12.5:6.25,4:0:6.25", s.String())

	for _, bad := range []string{"3", "3:1", "x:1:1", "3:x:1", "3:1:x"} {
		assert.Error(t, s.Set(bad), bad)
	}
	assert.Len(t, s, 2)
}
