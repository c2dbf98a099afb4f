/**
* Name: 			client.go
* Description: 		Chat completion client for the hosted model (Groq, OpenAI-compatible API)
* Workflow: 		convert messages and tool definitions, call the API, convert the reply back
 */

package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	SystemRole    = openai.ChatMessageRoleSystem
	UserRole      = openai.ChatMessageRoleUser
	AssistantRole = openai.ChatMessageRoleAssistant
	ToolRole      = openai.ChatMessageRoleTool
)

var ErrEmptyResponse = errors.New("llm response has no choices")

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDef describes a function the model may call; Parameters is a JSON schema object.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type Request struct {
	Messages []Message
	Tools    []ToolDef
}

type Response struct {
	ID      string
	Model   string
	Message Message
	Usage   Usage
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (u *Usage) Merge(v Usage) {
	u.InputTokens += v.InputTokens
	u.OutputTokens += v.OutputTokens
}

type Client struct {
	api         *openai.Client
	model       string
	temperature float32
}

type Option func(*openai.ClientConfig)

func WithBaseURL(baseURL string) Option {
	return func(c *openai.ClientConfig) {
		c.BaseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *openai.ClientConfig) {
		c.HTTPClient = &http.Client{Timeout: timeout}
	}
}

// NewClient creates a client bound to one model identifier.
func NewClient(apiKey, model string, temperature float32, opts ...Option) *Client {
	cfg := openai.DefaultConfig(apiKey)
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends one blocking chat completion request.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
	}
	// temperature is omitempty on the wire; 0 would fall back to the provider default
	if chatReq.Temperature == 0 {
		chatReq.Temperature = math.SmallestNonzeroFloat32
	}
	for _, msg := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, msg.toOpenAI())
	}
	for _, tool := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion (%s): %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &Response{
		ID:      resp.ID,
		Model:   resp.Model,
		Message: fromOpenAI(resp.Choices[0].Message),
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func (m Message) toOpenAI() openai.ChatCompletionMessage {
	v := openai.ChatCompletionMessage{
		Role:       m.Role,
		Content:    m.Content,
		Name:       m.Name,
		ToolCallID: m.ToolCallID,
	}
	for _, tc := range m.ToolCalls {
		v.ToolCalls = append(v.ToolCalls, openai.ToolCall{
			ID:   tc.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return v
}

func fromOpenAI(v openai.ChatCompletionMessage) Message {
	m := Message{
		Role:    v.Role,
		Content: v.Content,
	}
	for _, tc := range v.ToolCalls {
		m.ToolCalls = append(m.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return m
}
