package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pagao/pagao/result"
)

// Login exchanges credentials for a session. The token travels in the
// Authorization response header.
func (c *Client) Login(ctx context.Context, creds Credentials) result.NetworkResult[result.ResponseWithToken[AuthResponse]] {
	return SafeAPICallWithToken[AuthResponse](ctx, c.call(http.MethodPost, "/auth/login", creds))
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, reg Registration) result.NetworkResult[AuthResponse] {
	return SafeAPICall[AuthResponse](ctx, c.call(http.MethodPost, "/auth/register", reg))
}

// GetGroups lists the groups of the current user
func (c *Client) GetGroups(ctx context.Context) result.NetworkResult[[]Group] {
	return SafeAPICall[[]Group](ctx, c.call(http.MethodGet, "/groups", nil))
}

// GetGroup fetches a single group
func (c *Client) GetGroup(ctx context.Context, groupID int) result.NetworkResult[Group] {
	return SafeAPICall[Group](ctx, c.call(http.MethodGet, fmt.Sprintf("/groups/%d", groupID), nil))
}

// CreateGroup creates a group owned by the current user
func (c *Client) CreateGroup(ctx context.Context, group NewGroup) result.NetworkResult[Group] {
	return SafeAPICall[Group](ctx, c.call(http.MethodPost, "/groups", group))
}

// GetMembersOfGroup lists every member slot of a group
func (c *Client) GetMembersOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]Member] {
	return SafeAPICall[[]Member](ctx, c.call(http.MethodGet, fmt.Sprintf("/members/group/%d", groupID), nil))
}

// GetMembersAvailableOfGroup lists the member slots not yet claimed by a user
func (c *Client) GetMembersAvailableOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]Member] {
	return SafeAPICall[[]Member](ctx, c.call(http.MethodGet, fmt.Sprintf("/members/available/%d", groupID), nil))
}

// SetUserToMember assigns the current user to a member slot
func (c *Client) SetUserToMember(ctx context.Context, memberID int) result.NetworkResult[Member] {
	return SafeAPICall[Member](ctx, c.call(http.MethodPut, fmt.Sprintf("/members/%d/user", memberID), nil))
}

// GetReceipt fetches a receipt, filling in TotalPaid from the participations
// when the server leaves it out.
func (c *Client) GetReceipt(ctx context.Context, receiptID int) result.NetworkResult[Receipt] {
	return SafeAPICallTransform(ctx, c.call(http.MethodGet, fmt.Sprintf("/receipts/%d", receiptID), nil), withTotalPaid)
}

// GetReceiptsOfGroup lists the receipts of a group
func (c *Client) GetReceiptsOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]Receipt] {
	return SafeAPICall[[]Receipt](ctx, c.call(http.MethodGet, fmt.Sprintf("/receipts/group/%d", groupID), nil))
}

// CreateReceipt stores a new receipt
func (c *Client) CreateReceipt(ctx context.Context, receipt NewReceipt) result.NetworkResult[Receipt] {
	return SafeAPICall[Receipt](ctx, c.call(http.MethodPost, "/receipts", receipt))
}

func withTotalPaid(r Receipt) Receipt {
	if r.TotalPaid != nil {
		return r
	}
	var total float64
	for _, p := range r.Participations {
		total += p.Paid
	}
	r.TotalPaid = &total
	return r
}
