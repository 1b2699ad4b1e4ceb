package upstream

import (
	"context"
	"net/url"
)

type startResponse struct {
	SessionID string `json:"session_id"`
}

type stopRequest struct {
	SessionID string `json:"session_id"`
}

// LiveMetrics is the polled live summary of a running session.
type LiveMetrics struct {
	FatigueScore float64 `json:"fatigue_score"`
	Quality      float64 `json:"quality"`
	Timestamp    string  `json:"timestamp"`
}

// StartAcquisition opens a session on the backend and returns its id.
func (c *Client) StartAcquisition(ctx context.Context) (string, error) {
	var resp startResponse
	if err := c.Post(ctx, "/acquisition/start", nil, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

// StopAcquisition closes the session on the backend.
func (c *Client) StopAcquisition(ctx context.Context, sessionID string) error {
	return c.Post(ctx, "/acquisition/stop", stopRequest{SessionID: sessionID}, nil)
}

// Live polls the live metrics of a session.
func (c *Client) Live(ctx context.Context, sessionID string) (*LiveMetrics, error) {
	var m LiveMetrics
	if err := c.Get(ctx, "/acquisition/"+url.PathEscape(sessionID)+"/live", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
