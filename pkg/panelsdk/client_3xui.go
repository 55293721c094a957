package panelsdk

import (
	"context"
	"net/url"
)

// xuiClient speaks to MHSanaei 3x-ui panels the way its SDK does.
type xuiClient struct {
	base
}

// xuiClientSettings is a client entry as the 3x-ui SDK serializes it.
type xuiClientSettings struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Enable     bool   `json:"enable"`
	ExpiryTime int64  `json:"expiryTime"`
	TotalGB    int64  `json:"totalGB"`
	Flow       string `json:"flow"`
	SubID      string `json:"subId"`
	LimitIP    int    `json:"limitIp"`
	TgID       string `json:"tgId"`
	Reset      int    `json:"reset"`
	InboundID  int    `json:"inboundId,omitempty"`
}

func (c *xuiClient) Flavor() Flavor { return Flavor3XUI }

func (c *xuiClient) HealthCheck(ctx context.Context) (*ServerStatus, error) {
	return c.probe(ctx)
}

// ListOnlineClients sends whatever session is cached without logging in
// first. Auth-class failures still get the single retry.
func (c *xuiClient) ListOnlineClients(ctx context.Context) ([]string, error) {
	return c.onlines(ctx, true)
}

func (c *xuiClient) AddClient(ctx context.Context, inboundID int, flow string, draft ClientDraft) (bool, error) {
	return c.postClient(ctx, pathAddClient, inboundID, xuiClientSettings{
		ID:         draft.ID,
		Email:      draft.Email,
		Enable:     draft.Enable,
		ExpiryTime: draft.ExpiryTime,
		TotalGB:    draft.Total,
		Flow:       pickFlow(flow, draft.Flow),
		SubID:      draft.SubID,
	})
}

func (c *xuiClient) UpdateClient(ctx context.Context, uuid string, inboundID int, flow string, patch ClientDraft) (bool, error) {
	return c.postClient(ctx, pathUpdateClient+url.PathEscape(uuid), inboundID, xuiClientSettings{
		ID:         uuid,
		Email:      patch.Email,
		Enable:     patch.Enable,
		ExpiryTime: patch.ExpiryTime,
		TotalGB:    patch.Total,
		Flow:       pickFlow(flow, patch.Flow),
		SubID:      patch.SubID,
		InboundID:  inboundID,
	})
}
