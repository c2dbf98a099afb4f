package crew

import (
	"context"
	"fmt"
	"log"
	"strings"

	"CommitBuddy_NutritionAdvisor/internal/llm"
)

const DefaultMaxIter = 5

// LLM is the chat model an agent talks to.
type LLM interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Tool is a function an agent may let the model call.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Call(ctx context.Context, arguments string) (string, error)
}

// Agent is a role bound to an LLM and, optionally, tools.
type Agent struct {
	Role      string
	Goal      string
	Backstory string
	Tools     []Tool
	LLM       LLM
	// MaxIter bounds the number of tool-calling rounds before a final answer is forced.
	MaxIter int
}

func (a *Agent) SystemPrompt() string {
	return fmt.Sprintf("You are %s. %s\nYour personal goal is: %s", a.Role, a.Backstory, a.Goal)
}

// Execute runs one task prompt to completion and returns the model's final text.
func (a *Agent) Execute(ctx context.Context, prompt string) (string, llm.Usage, error) {
	var usage llm.Usage
	messages := []llm.Message{
		{Role: llm.SystemRole, Content: a.SystemPrompt()},
		{Role: llm.UserRole, Content: prompt},
	}

	maxIter := a.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	defs := a.toolDefs()

	for i := 0; i < maxIter; i++ {
		resp, err := a.LLM.Complete(ctx, llm.Request{Messages: messages, Tools: defs})
		if err != nil {
			return "", usage, err
		}
		usage.Merge(resp.Usage)
		if len(resp.Message.ToolCalls) == 0 {
			return strings.TrimSpace(resp.Message.Content), usage, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.AssistantRole,
			Content:   resp.Message.Content,
			ToolCalls: resp.Message.ToolCalls,
		})
		for _, call := range resp.Message.ToolCalls {
			messages = append(messages, llm.Message{
				Role:       llm.ToolRole,
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    a.useTool(ctx, call),
			})
		}
	}

	// out of tool rounds: ask for the answer with tools disabled
	log.Printf("Agent.Execute(): %s reached %d tool iterations, forcing final answer", a.Role, maxIter)
	messages = append(messages, llm.Message{
		Role:    llm.UserRole,
		Content: "Stop using tools now. Give your best complete final answer based on what you already know.",
	})
	resp, err := a.LLM.Complete(ctx, llm.Request{Messages: messages})
	if err != nil {
		return "", usage, err
	}
	usage.Merge(resp.Usage)
	return strings.TrimSpace(resp.Message.Content), usage, nil
}

// useTool runs a tool call; failures go back to the model as text.
func (a *Agent) useTool(ctx context.Context, call llm.ToolCall) string {
	for _, tool := range a.Tools {
		if tool.Name() != call.Name {
			continue
		}
		out, err := tool.Call(ctx, call.Arguments)
		if err != nil {
			log.Printf("Agent.useTool(): %s tool %s failed: %v", a.Role, call.Name, err)
			return fmt.Sprintf("Error: the tool %s failed: %v", call.Name, err)
		}
		return out
	}
	log.Printf("Agent.useTool(): %s requested unknown tool %s", a.Role, call.Name)
	return fmt.Sprintf("Error: the tool %s does not exist. Available tools: %s", call.Name, strings.Join(a.toolNames(), ", "))
}

func (a *Agent) toolDefs() []llm.ToolDef {
	if len(a.Tools) == 0 {
		return nil
	}
	defs := make([]llm.ToolDef, 0, len(a.Tools))
	for _, tool := range a.Tools {
		defs = append(defs, llm.ToolDef{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return defs
}

func (a *Agent) toolNames() []string {
	names := make([]string, 0, len(a.Tools))
	for _, tool := range a.Tools {
		names = append(names, tool.Name())
	}
	return names
}
