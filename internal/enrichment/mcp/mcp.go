// Package mcp implements [enrichment.Collaborator] by calling a single
// tool on an external MCP server, using the official MCP Go SDK
// (github.com/modelcontextprotocol/go-sdk). It is a single-purpose sibling
// of internal/mcp/mcphost's multi-server, multi-tool host: where mcphost
// manages an NPC's entire tool catalogue under budget tiers, this client
// exists only to hand one entity snapshot to one "enrich_entity" tool and
// parse its JSON reply back into an [enrichment.Record].
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mrwong99/worldforge/internal/enrichment"
)

// defaultToolName is the tool invoked on the configured server.
const defaultToolName = "enrich_entity"

// Collaborator implements [enrichment.Collaborator] by calling a tool on a
// connected MCP server.
type Collaborator struct {
	session  *mcpsdk.ClientSession
	toolName string
}

// Compile-time assertion.
var _ enrichment.Collaborator = (*Collaborator)(nil)

// Config describes how to reach the enrichment MCP server.
type Config struct {
	// Command launches a stdio MCP server, e.g. "/usr/local/bin/mcp-enrich".
	// Mutually exclusive with URL.
	Command string
	// URL connects to a streamable-HTTP MCP server. Mutually exclusive
	// with Command.
	URL string
	// ToolName overrides defaultToolName.
	ToolName string
}

// Connect establishes the MCP session described by cfg.
func Connect(ctx context.Context, cfg Config) (*Collaborator, error) {
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "worldforge-enrichment", Version: "1.0.0"}, nil)

	var transport mcpsdk.Transport
	switch {
	case cfg.Command != "":
		parts := strings.Fields(cfg.Command)
		if len(parts) == 0 {
			return nil, fmt.Errorf("enrichment/mcp: empty Command")
		}
		cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
		transport = &mcpsdk.CommandTransport{Command: cmd}
	case cfg.URL != "":
		transport = &mcpsdk.StreamableClientTransport{Endpoint: cfg.URL}
	default:
		return nil, fmt.Errorf("enrichment/mcp: one of Command or URL is required")
	}

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("enrichment/mcp: connect: %w", err)
	}

	toolName := cfg.ToolName
	if toolName == "" {
		toolName = defaultToolName
	}
	return &Collaborator{session: session, toolName: toolName}, nil
}

// Enrich implements [enrichment.Collaborator].
func (c *Collaborator) Enrich(ctx context.Context, snap enrichment.Snapshot) (enrichment.Record, error) {
	args := map[string]any{
		"entityId":    snap.EntityID,
		"kind":        snap.Kind,
		"subtype":     snap.Subtype,
		"name":        snap.Name,
		"description": snap.Description,
		"tags":        snap.Tags,
		"loreNote":    snap.LoreNote,
		"tick":        snap.Tick,
	}

	callResult, err := c.session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      c.toolName,
		Arguments: args,
	})
	if err != nil {
		return enrichment.Record{}, fmt.Errorf("enrichment/mcp: call %q: %w", c.toolName, err)
	}
	if callResult.IsError {
		return enrichment.Record{}, fmt.Errorf("enrichment/mcp: tool %q reported an error", c.toolName)
	}

	var sb strings.Builder
	for _, content := range callResult.Content {
		if tc, ok := content.(*mcpsdk.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}

	var reply struct {
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Tags        map[string]string `json:"tags"`
		LoreNotes   string            `json:"loreNotes"`
	}
	if err := json.Unmarshal([]byte(sb.String()), &reply); err != nil {
		return enrichment.Record{}, fmt.Errorf("enrichment/mcp: parse reply: %w", err)
	}

	return enrichment.Record{
		EntityID:    snap.EntityID,
		Kind:        snap.Kind,
		OldName:     snap.Name,
		NewName:     reply.Name,
		Description: reply.Description,
		Tags:        reply.Tags,
		LoreNotes:   reply.LoreNotes,
		Tick:        snap.Tick,
	}, nil
}

// Close releases the underlying MCP session.
func (c *Collaborator) Close() error {
	return c.session.Close()
}
