package collab

import (
	"context"

	"tangled.org/vigil.social/vigil/internal/moderation"
)

// ContentClient talks to the content service. It serves both sides of
// the engine's content contract: visibility queries at report time and
// removal commands at resolution time.
type ContentClient struct {
	client
}

// NewContentClient creates a client for the content service at baseURL.
func NewContentClient(baseURL string) *ContentClient {
	return &ContentClient{client: newClient(baseURL)}
}

var (
	_ moderation.ContentDirectory = (*ContentClient)(nil)
	_ moderation.ContentRemover   = (*ContentClient)(nil)
)

// resolveContentOpts is the query shape for content lookups.
type resolveContentOpts struct {
	ViewerID    string `url:"viewer_id"`
	ContentID   string `url:"content_id"`
	ContentType string `url:"content_type"`
}

type resolveContentResponse struct {
	OwnerID string `json:"owner_id"`
	Visible bool   `json:"visible"`
}

// ResolveContent looks up who owns the content and whether the viewer
// can currently see it.
func (c *ContentClient) ResolveContent(ctx context.Context, viewerID, contentID string, contentType moderation.ContentType) (string, bool, error) {
	var resp resolveContentResponse
	err := c.getJSON(ctx, "/internal/content/resolve", resolveContentOpts{
		ViewerID:    viewerID,
		ContentID:   contentID,
		ContentType: string(contentType),
	}, &resp)
	if err != nil {
		return "", false, err
	}
	return resp.OwnerID, resp.Visible, nil
}

type removeContentRequest struct {
	ContentID      string `json:"content_id"`
	ContentType    string `json:"content_type"`
	IdempotencyKey string `json:"idempotency_key"`
}

// RemoveContent asks the content service to take the content down. The
// idempotency key lets the service absorb redelivery of the same
// command.
func (c *ContentClient) RemoveContent(ctx context.Context, contentID string, contentType moderation.ContentType, idempotencyKey string) error {
	return c.postJSON(ctx, "/internal/content/remove", removeContentRequest{
		ContentID:      contentID,
		ContentType:    string(contentType),
		IdempotencyKey: idempotencyKey,
	}, nil)
}
