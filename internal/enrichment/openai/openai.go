// Package openai implements [enrichment.Collaborator] using the OpenAI
// chat completions API: it asks the model to propose a new name,
// description, and tags for one entity snapshot and parses the reply back
// into an [enrichment.Record].
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/mrwong99/worldforge/internal/enrichment"
)

const systemPrompt = `You are a world-building collaborator. Given a JSON snapshot of one ` +
	`simulated entity, reply with a single JSON object and nothing else:
{"name": "<optional improved name, empty string to keep current>",
 "description": "<one or two sentence lore description>",
 "tags": {"<tag>": "<label>", ...}}
Never invent relationships, ids, or kinds. Keep names distinct from well-known ` +
	`real-world figures unless the entity is explicitly meant to evoke them.`

// Collaborator implements [enrichment.Collaborator] over the OpenAI API.
type Collaborator struct {
	client oai.Client
	model  string
}

// Compile-time assertion.
var _ enrichment.Collaborator = (*Collaborator)(nil)

// New constructs a Collaborator. apiKey and model must be non-empty.
func New(apiKey, model string) (*Collaborator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("enrichment/openai: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("enrichment/openai: model must not be empty")
	}
	client := oai.NewClient(option.WithAPIKey(apiKey))
	return &Collaborator{client: client, model: model}, nil
}

// Enrich implements [enrichment.Collaborator].
func (c *Collaborator) Enrich(ctx context.Context, snap enrichment.Snapshot) (enrichment.Record, error) {
	body, err := json.Marshal(snapshotPayload{
		EntityID:    snap.EntityID,
		Kind:        snap.Kind,
		Subtype:     snap.Subtype,
		Name:        snap.Name,
		Description: snap.Description,
		Tags:        snap.Tags,
		LoreNote:    snap.LoreNote,
	})
	if err != nil {
		return enrichment.Record{}, fmt.Errorf("enrichment/openai: marshal snapshot: %w", err)
	}

	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(string(body)),
		},
		Temperature: param.NewOpt(0.7),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return enrichment.Record{}, fmt.Errorf("enrichment/openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return enrichment.Record{}, fmt.Errorf("enrichment/openai: empty choices in response")
	}

	var reply replyPayload
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return enrichment.Record{}, fmt.Errorf("enrichment/openai: parse reply: %w", err)
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

type snapshotPayload struct {
	EntityID    string   `json:"entityId"`
	Kind        string   `json:"kind"`
	Subtype     string   `json:"subtype,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	LoreNote    string   `json:"loreNote,omitempty"`
}

type replyPayload struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Tags        map[string]string `json:"tags"`
	LoreNotes   string            `json:"loreNotes"`
}
