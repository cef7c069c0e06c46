package upstream

import (
	"context"
	"log"
	"net/http"

	"farmhub-server/internal/domain"
)

// FallbackReply is returned to the user whenever the completion provider is
// unreachable or answers garbage. Chat is advisory: the caller gets this text
// instead of an error.
const FallbackReply = "I'm having trouble connecting to my knowledge base right now. Please try again in a moment."

const systemPrompt = "You are FarmAI, an agricultural assistant trained to help farmers with crop information, " +
	"farming techniques, disease identification, and best practices in agriculture. Provide helpful, accurate, " +
	"and practical farming advice. **Format responses with bold headings** and use line breaks to organize " +
	"information clearly."

// ChatClient talks to an OpenAI-compatible chat-completions endpoint.
type ChatClient struct {
	fetcher  *Fetcher
	endpoint string
	apiKey   string
	model    string
}

func NewChatClient(fetcher *Fetcher, endpoint, apiKey, model string) *ChatClient {
	return &ChatClient{
		fetcher:  fetcher,
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
	}
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string     `json:"model"`
	Messages    []chatTurn `json:"messages"`
	Temperature float64    `json:"temperature"`
	MaxTokens   int        `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation so far and returns the assistant reply.
// The FarmAI system prompt is prepended unless the history already carries
// one. Failures are logged and swallowed into FallbackReply; the second
// return reports whether the reply is the fallback so callers can skip
// persisting it as a genuine model answer.
func (c *ChatClient) Complete(ctx context.Context, history []domain.ChatMessage) (string, bool) {
	turns := make([]chatTurn, 0, len(history)+1)
	hasSystem := false
	for _, m := range history {
		if m.Role == domain.RoleSystem {
			hasSystem = true
		}
		turns = append(turns, chatTurn{Role: string(m.Role), Content: m.Content})
	}
	if !hasSystem {
		turns = append([]chatTurn{{Role: string(domain.RoleSystem), Content: systemPrompt}}, turns...)
	}

	req := completionRequest{
		Model:       c.model,
		Messages:    turns,
		Temperature: 0.7,
		MaxTokens:   1024,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var resp completionResponse
	if err := c.fetcher.FetchJSON(ctx, http.MethodPost, c.endpoint, headers, req, &resp); err != nil {
		log.Printf("chat completion failed: %v", err)
		return FallbackReply, true
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Printf("chat completion returned no choices")
		return FallbackReply, true
	}
	return resp.Choices[0].Message.Content, false
}
