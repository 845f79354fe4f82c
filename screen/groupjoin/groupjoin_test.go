package groupjoin

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/connectivity"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
	"github.com/pagao/pagao/screen/screentest"
)

var (
	ana  = client.Member{ID: 11, Name: "Ana"}
	luis = client.Member{ID: 12, Name: "Luis"}
	eva  = client.Member{ID: 13, Name: "Eva"}
)

func groupAPI() *screentest.FakeAPI {
	return &screentest.FakeAPI{
		GetGroupFunc: func(ctx context.Context, id int) result.NetworkResult[client.Group] {
			return result.NewSuccess(client.Group{ID: id, Name: "Trip"})
		},
		GetMembersOfGroupFunc: func(ctx context.Context, id int) result.NetworkResult[[]client.Member] {
			return result.NewSuccess([]client.Member{ana, luis, eva})
		},
		GetMembersAvailableOfGroupFunc: func(ctx context.Context, id int) result.NetworkResult[[]client.Member] {
			return result.NewSuccess([]client.Member{luis, eva})
		},
	}
}

func newController(t *testing.T, api *screentest.FakeAPI, online connectivity.Checker) *Controller {
	t.Helper()
	c := New(api, screen.Deps{Online: online})
	t.Cleanup(c.Close)
	return c
}

func loaded(t *testing.T, api *screentest.FakeAPI) *Controller {
	t.Helper()
	c := newController(t, api, connectivity.Static(true))
	c.Handle(LoadGroup{GroupID: 5})
	c.Wait()
	return c
}

// ============================================================================
// LoadGroup
// ============================================================================

func TestLoadGroup_FillsGroupMembersAndAvailable(t *testing.T) {
	t.Parallel()

	api := groupAPI()
	c := loaded(t, api)

	state := c.State()
	assert.Equal(t, "Trip", state.Group.Name)
	assert.Equal(t, []client.Member{ana, luis, eva}, state.Members)
	assert.Equal(t, []client.Member{luis, eva}, state.AvailableMembers)
	assert.False(t, state.IsLoading)
	assert.Equal(t, []any{5}, api.Calls("GetMembersOfGroup"))
	assert.Equal(t, []any{5}, api.Calls("GetMembersAvailableOfGroup"))
}

func TestLoadGroup_SecondaryErrorKeepsPrimary(t *testing.T) {
	t.Parallel()

	api := groupAPI()
	api.GetMembersAvailableOfGroupFunc = func(ctx context.Context, id int) result.NetworkResult[[]client.Member] {
		return result.NewError[[]client.Member]("boom")
	}
	c := loaded(t, api)

	state := c.State()
	assert.Equal(t, "Trip", state.Group.Name)
	assert.Equal(t, "boom", state.Error)
	assert.Len(t, state.Members, 3)
	assert.Empty(t, state.AvailableMembers)
}

func TestLoadGroup_Offline(t *testing.T) {
	t.Parallel()

	api := groupAPI()
	c := newController(t, api, connectivity.Static(false))

	c.Handle(LoadGroup{GroupID: 5})
	c.Wait()

	assert.Equal(t, screen.MsgNoConnection, c.State().Error)
	assert.False(t, c.State().IsLoading)
	assert.Zero(t, api.CallCount("GetGroup"))
}

func TestLoadGroup_ConnectionDropsMidway(t *testing.T) {
	t.Parallel()

	// online for the group call (Loading + result), offline afterwards
	var checks atomic.Int32
	online := connectivity.Func(func(context.Context) bool {
		return checks.Add(1) <= 2
	})
	api := groupAPI()
	c := newController(t, api, online)

	c.Handle(LoadGroup{GroupID: 5})
	c.Wait()

	state := c.State()
	assert.Equal(t, "Trip", state.Group.Name)
	assert.Equal(t, screen.MsgNoConnection, state.Error)
	assert.Zero(t, api.CallCount("GetMembersOfGroup"))
	assert.Zero(t, api.CallCount("GetMembersAvailableOfGroup"))
}

// ============================================================================
// SelectMember
// ============================================================================

func TestSelectMember_FromAvailable(t *testing.T) {
	t.Parallel()

	c := loaded(t, groupAPI())

	c.Handle(SelectMember{Member: client.Member{ID: luis.ID}})
	assert.Equal(t, luis, c.State().SelectedMember)
}

func TestSelectMember_UnknownResetsSelection(t *testing.T) {
	t.Parallel()

	c := loaded(t, groupAPI())
	c.Handle(SelectMember{Member: luis})
	require.Equal(t, luis, c.State().SelectedMember)

	// Ana already belongs to someone, so she is not selectable
	c.Handle(SelectMember{Member: ana})
	assert.Equal(t, client.Member{}, c.State().SelectedMember)
}

// ============================================================================
// JoinGroup
// ============================================================================

func TestJoinGroup_WithoutSelection(t *testing.T) {
	t.Parallel()

	api := groupAPI()
	c := loaded(t, api)

	done := false
	c.Handle(JoinGroup{OnDone: func() { done = true }})
	c.Wait()

	assert.Equal(t, MsgInvalidMember, c.State().Error)
	assert.False(t, done)
	assert.Zero(t, api.CallCount("SetUserToMember"))
}

func TestJoinGroup_Success(t *testing.T) {
	t.Parallel()

	api := groupAPI()
	api.SetUserToMemberFunc = func(ctx context.Context, id int) result.NetworkResult[client.Member] {
		return result.NewSuccess(client.Member{ID: id, Name: "Eva"})
	}
	c := loaded(t, api)

	var done atomic.Int32
	c.Handle(SelectMember{Member: eva})
	c.Handle(JoinGroup{OnDone: func() { done.Add(1) }})
	c.Wait()

	assert.Equal(t, int32(1), done.Load())
	assert.Equal(t, []any{eva.ID}, api.Calls("SetUserToMember"))
	assert.False(t, c.State().IsLoading)
	assert.Empty(t, c.State().Error)
}

func TestJoinGroup_NoContentStillCompletes(t *testing.T) {
	t.Parallel()

	api := groupAPI()
	c := loaded(t, api)

	var done atomic.Int32
	c.Handle(SelectMember{Member: luis})
	c.Handle(JoinGroup{OnDone: func() { done.Add(1) }})
	c.Wait()

	assert.Equal(t, int32(1), done.Load())
}

func TestJoinGroup_ServerError(t *testing.T) {
	t.Parallel()

	api := groupAPI()
	api.SetUserToMemberFunc = func(ctx context.Context, id int) result.NetworkResult[client.Member] {
		return result.NewError[client.Member]("Member already taken")
	}
	c := loaded(t, api)

	done := false
	c.Handle(SelectMember{Member: luis})
	c.Handle(JoinGroup{OnDone: func() { done = true }})
	c.Wait()

	assert.False(t, done)
	assert.Equal(t, "Member already taken", c.State().Error)
	assert.False(t, c.State().IsLoading)
}

func TestJoinGroup_Offline(t *testing.T) {
	t.Parallel()

	api := groupAPI()
	online := true
	c := newController(t, api, connectivity.Func(func(context.Context) bool { return online }))
	c.Handle(LoadGroup{GroupID: 5})
	c.Wait()
	c.Handle(SelectMember{Member: luis})

	online = false
	c.Handle(JoinGroup{OnDone: func() { t.Error("OnDone must not run offline") }})
	c.Wait()

	assert.Equal(t, screen.MsgNoConnection, c.State().Error)
	assert.Zero(t, api.CallCount("SetUserToMember"))
}
