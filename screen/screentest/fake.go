// Package screentest provides a scriptable fake of the pagao API for
// controller tests.
package screentest

import (
	"context"
	"sync"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/result"
)

// FakeAPI implements every screen API. Unset funcs answer SuccessNoData.
// Calls are counted per method name.
type FakeAPI struct {
	LoginFunc                      func(ctx context.Context, creds client.Credentials) result.NetworkResult[result.ResponseWithToken[client.AuthResponse]]
	RegisterFunc                   func(ctx context.Context, reg client.Registration) result.NetworkResult[client.AuthResponse]
	GetGroupsFunc                  func(ctx context.Context) result.NetworkResult[[]client.Group]
	GetGroupFunc                   func(ctx context.Context, groupID int) result.NetworkResult[client.Group]
	CreateGroupFunc                func(ctx context.Context, group client.NewGroup) result.NetworkResult[client.Group]
	GetMembersOfGroupFunc          func(ctx context.Context, groupID int) result.NetworkResult[[]client.Member]
	GetMembersAvailableOfGroupFunc func(ctx context.Context, groupID int) result.NetworkResult[[]client.Member]
	SetUserToMemberFunc            func(ctx context.Context, memberID int) result.NetworkResult[client.Member]
	GetReceiptFunc                 func(ctx context.Context, receiptID int) result.NetworkResult[client.Receipt]
	GetReceiptsOfGroupFunc         func(ctx context.Context, groupID int) result.NetworkResult[[]client.Receipt]
	CreateReceiptFunc              func(ctx context.Context, receipt client.NewReceipt) result.NetworkResult[client.Receipt]
	SetTokenFunc                   func(token string)

	mu    sync.Mutex
	calls map[string][]any
}

func (f *FakeAPI) record(name string, arg any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string][]any)
	}
	f.calls[name] = append(f.calls[name], arg)
}

// Calls returns the arguments of every call to method
func (f *FakeAPI) Calls(method string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.calls[method]...)
}

// CallCount returns how often method was called
func (f *FakeAPI) CallCount(method string) int {
	return len(f.Calls(method))
}

func (f *FakeAPI) Login(ctx context.Context, creds client.Credentials) result.NetworkResult[result.ResponseWithToken[client.AuthResponse]] {
	f.record("Login", creds)
	if f.LoginFunc == nil {
		return result.NewSuccessNoData[result.ResponseWithToken[client.AuthResponse]]()
	}
	return f.LoginFunc(ctx, creds)
}

func (f *FakeAPI) Register(ctx context.Context, reg client.Registration) result.NetworkResult[client.AuthResponse] {
	f.record("Register", reg)
	if f.RegisterFunc == nil {
		return result.NewSuccessNoData[client.AuthResponse]()
	}
	return f.RegisterFunc(ctx, reg)
}

func (f *FakeAPI) GetGroups(ctx context.Context) result.NetworkResult[[]client.Group] {
	f.record("GetGroups", nil)
	if f.GetGroupsFunc == nil {
		return result.NewSuccessNoData[[]client.Group]()
	}
	return f.GetGroupsFunc(ctx)
}

func (f *FakeAPI) GetGroup(ctx context.Context, groupID int) result.NetworkResult[client.Group] {
	f.record("GetGroup", groupID)
	if f.GetGroupFunc == nil {
		return result.NewSuccessNoData[client.Group]()
	}
	return f.GetGroupFunc(ctx, groupID)
}

func (f *FakeAPI) CreateGroup(ctx context.Context, group client.NewGroup) result.NetworkResult[client.Group] {
	f.record("CreateGroup", group)
	if f.CreateGroupFunc == nil {
		return result.NewSuccessNoData[client.Group]()
	}
	return f.CreateGroupFunc(ctx, group)
}

func (f *FakeAPI) GetMembersOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]client.Member] {
	f.record("GetMembersOfGroup", groupID)
	if f.GetMembersOfGroupFunc == nil {
		return result.NewSuccessNoData[[]client.Member]()
	}
	return f.GetMembersOfGroupFunc(ctx, groupID)
}

func (f *FakeAPI) GetMembersAvailableOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]client.Member] {
	f.record("GetMembersAvailableOfGroup", groupID)
	if f.GetMembersAvailableOfGroupFunc == nil {
		return result.NewSuccessNoData[[]client.Member]()
	}
	return f.GetMembersAvailableOfGroupFunc(ctx, groupID)
}

func (f *FakeAPI) SetUserToMember(ctx context.Context, memberID int) result.NetworkResult[client.Member] {
	f.record("SetUserToMember", memberID)
	if f.SetUserToMemberFunc == nil {
		return result.NewSuccessNoData[client.Member]()
	}
	return f.SetUserToMemberFunc(ctx, memberID)
}

func (f *FakeAPI) GetReceipt(ctx context.Context, receiptID int) result.NetworkResult[client.Receipt] {
	f.record("GetReceipt", receiptID)
	if f.GetReceiptFunc == nil {
		return result.NewSuccessNoData[client.Receipt]()
	}
	return f.GetReceiptFunc(ctx, receiptID)
}

func (f *FakeAPI) GetReceiptsOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]client.Receipt] {
	f.record("GetReceiptsOfGroup", groupID)
	if f.GetReceiptsOfGroupFunc == nil {
		return result.NewSuccessNoData[[]client.Receipt]()
	}
	return f.GetReceiptsOfGroupFunc(ctx, groupID)
}

func (f *FakeAPI) CreateReceipt(ctx context.Context, receipt client.NewReceipt) result.NetworkResult[client.Receipt] {
	f.record("CreateReceipt", receipt)
	if f.CreateReceiptFunc == nil {
		return result.NewSuccessNoData[client.Receipt]()
	}
	return f.CreateReceiptFunc(ctx, receipt)
}

func (f *FakeAPI) SetToken(token string) {
	f.record("SetToken", token)
	if f.SetTokenFunc != nil {
		f.SetTokenFunc(token)
	}
}
