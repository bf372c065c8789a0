package host

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Membership is an interface that defines the room membership capabilities the
// hosting chat server must provide. The core only decides which rooms a user
// should be invited into; carrying out the invitation belongs to the host.
type Membership interface {
	// InviteUser invites the user into the room.
	InviteUser(ctx context.Context, roomID, userID string) error

	// IsMember reports whether the user is already a joined member of the room.
	IsMember(ctx context.Context, roomID, userID string) (bool, error)
}

const (
	defaultTimeout       = 10 * time.Second
	defaultRetryCount    = 3
	defaultRetryWaitTime = 500 * time.Millisecond

	membershipJoin = "join"
)

// Client implements the Membership interface against the homeserver's client API.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a new Client for the homeserver at baseURL, authenticating
// with the provided access token.
func NewClient(baseURL, accessToken string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
	}
}

type inviteRequest struct {
	UserID string `json:"user_id"`
}

type memberStateResponse struct {
	Membership string `json:"membership"`
}

// InviteUser invites the user into the room.
func (c *Client) InviteUser(ctx context.Context, roomID, userID string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("roomID", roomID).
		SetBody(inviteRequest{UserID: userID}).
		Post("/_matrix/client/v3/rooms/{roomID}/invite")
	if err != nil {
		return fmt.Errorf("failed to call homeserver invite API: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("homeserver invite API returned %s: %s", resp.Status(), resp.String())
	}

	return nil
}

// IsMember reports whether the user is already a joined member of the room.
// A missing member state event means the user never was a member.
func (c *Client) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	state := &memberStateResponse{}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"roomID": roomID,
			"userID": userID,
		}).
		SetResult(state).
		Get("/_matrix/client/v3/rooms/{roomID}/state/m.room.member/{userID}")
	if err != nil {
		return false, fmt.Errorf("failed to call homeserver state API: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if resp.IsError() {
		return false, fmt.Errorf("homeserver state API returned %s: %s", resp.Status(), resp.String())
	}

	return state.Membership == membershipJoin, nil
}
