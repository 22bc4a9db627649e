package collab

import (
	"context"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// UserClient talks to the user service: existence checks and account
// counts at query time, suspension commands at resolution time.
type UserClient struct {
	client
}

// NewUserClient creates a client for the user service at baseURL.
func NewUserClient(baseURL string) *UserClient {
	return &UserClient{client: newClient(baseURL)}
}

var (
	_ moderation.UserDirectory = (*UserClient)(nil)
	_ moderation.UserSuspender = (*UserClient)(nil)
)

type userLookupOpts struct {
	UserID string `url:"user_id"`
}

type userLookupResponse struct {
	Exists bool `json:"exists"`
}

// UserExists checks whether the user is known to the user service.
func (c *UserClient) UserExists(ctx context.Context, userID string) (bool, error) {
	var resp userLookupResponse
	err := c.getJSON(ctx, "/internal/users/lookup", userLookupOpts{UserID: userID}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Exists, nil
}

type userCountsResponse struct {
	Total  int `json:"total"`
	Banned int `json:"banned"`
}

// UserCounts returns the total and banned account counts.
func (c *UserClient) UserCounts(ctx context.Context) (int, int, error) {
	var resp userCountsResponse
	err := c.getJSON(ctx, "/internal/users/counts", nil, &resp)
	if err != nil {
		return 0, 0, err
	}
	return resp.Total, resp.Banned, nil
}

type suspendUserRequest struct {
	UserID         string `json:"user_id"`
	Reason         string `json:"reason"`
	IdempotencyKey string `json:"idempotency_key"`
}

// SuspendUser asks the user service to suspend the account. Redelivery
// with the same idempotency key is absorbed by the service.
func (c *UserClient) SuspendUser(ctx context.Context, userID, reason, idempotencyKey string) error {
	return c.postJSON(ctx, "/internal/users/suspend", suspendUserRequest{
		UserID:         userID,
		Reason:         reason,
		IdempotencyKey: idempotencyKey,
	}, nil)
}
