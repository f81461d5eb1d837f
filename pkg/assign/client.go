package assign

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	pkghttp "github.com/quorix/kb-backend/pkg/http"
)

// Client implements Service against the unified assignments HTTP API.
type Client struct {
	connector *pkghttp.Connector
}

func NewClient(connector *pkghttp.Connector) *Client {
	return &Client{connector: connector}
}

// FetchAssignments retrieves the agent's unified assignment set.
// GET /knowledge-base/agents/{agentId}/assignments/unified
func (c *Client) FetchAssignments(ctx context.Context, agentID string) (*AssignmentSet, error) {
	var set AssignmentSet
	if err := c.connector.DoRequest(ctx, http.MethodGet, unifiedEndpoint(agentID), nil, &set); err != nil {
		return nil, fmt.Errorf("fetch unified assignments: %w", err)
	}
	return &set, nil
}

// ReplaceAssignments replaces the agent's full assignment set.
// POST /knowledge-base/agents/{agentId}/assignments/unified
func (c *Client) ReplaceAssignments(ctx context.Context, agentID string, req *UnifiedAssignmentRequest) (*AssignmentSet, error) {
	var set AssignmentSet
	if err := c.connector.DoRequest(ctx, http.MethodPost, unifiedEndpoint(agentID), req, &set); err != nil {
		return nil, fmt.Errorf("replace unified assignments: %w", err)
	}
	return &set, nil
}

func unifiedEndpoint(agentID string) string {
	return fmt.Sprintf("/knowledge-base/agents/%s/assignments/unified", url.PathEscape(agentID))
}
