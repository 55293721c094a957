package panelsdk

import (
	"context"
	"net/url"
)

// txuiClient speaks the tx-ui REST dialect.
type txuiClient struct {
	base
}

type txuiNewClient struct {
	ID         string `json:"id"`
	SubID      string `json:"subId"`
	Email      string `json:"email"`
	Flow       string `json:"flow"`
	Enable     bool   `json:"enable"`
	TotalGB    int64  `json:"totalGB"`
	ExpiryTime int64  `json:"expiryTime"`
	Reset      int    `json:"reset"`
	LimitIP    int    `json:"limitIp"`
	Comment    string `json:"comment"`
}

// txuiClientPatch is the update shape; tx-ui keeps reset, limitIp and comment
// untouched when they are absent.
type txuiClientPatch struct {
	ID         string `json:"id"`
	SubID      string `json:"subId"`
	Email      string `json:"email"`
	Flow       string `json:"flow"`
	Enable     bool   `json:"enable"`
	TotalGB    int64  `json:"totalGB"`
	ExpiryTime int64  `json:"expiryTime"`
}

func (c *txuiClient) Flavor() Flavor { return FlavorTXUI }

func (c *txuiClient) HealthCheck(ctx context.Context) (*ServerStatus, error) {
	return c.probe(ctx)
}

func (c *txuiClient) ListOnlineClients(ctx context.Context) ([]string, error) {
	return c.onlines(ctx, false)
}

func (c *txuiClient) AddClient(ctx context.Context, inboundID int, flow string, draft ClientDraft) (bool, error) {
	return c.postClient(ctx, pathAddClient, inboundID, txuiNewClient{
		ID:         draft.ID,
		SubID:      draft.SubID,
		Email:      draft.Email,
		Flow:       pickFlow(flow, draft.Flow),
		Enable:     draft.Enable,
		TotalGB:    draft.Total,
		ExpiryTime: draft.ExpiryTime,
	})
}

func (c *txuiClient) UpdateClient(ctx context.Context, uuid string, inboundID int, flow string, patch ClientDraft) (bool, error) {
	return c.postClient(ctx, pathUpdateClient+url.PathEscape(uuid), inboundID, txuiClientPatch{
		ID:         uuid,
		SubID:      patch.SubID,
		Email:      patch.Email,
		Flow:       pickFlow(flow, patch.Flow),
		Enable:     patch.Enable,
		TotalGB:    patch.Total,
		ExpiryTime: patch.ExpiryTime,
	})
}
