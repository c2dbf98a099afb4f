package crew

import (
	"fmt"
	"strings"

	"CommitBuddy_NutritionAdvisor/internal/llm"
)

// Task is one unit of work for an agent. Context lists earlier tasks
// whose descriptions and outputs are handed to this one.
type Task struct {
	Name           string
	Description    string
	ExpectedOutput string
	Agent          *Agent
	Context        []*Task

	output *TaskOutput
}

type TaskOutput struct {
	Name        string    `json:"name"`
	Agent       string    `json:"agent"`
	Description string    `json:"description"`
	Raw         string    `json:"output"`
	Usage       llm.Usage `json:"usage"`
}

// Prompt renders the user message for the task. It fails when a context task has not run yet.
func (t *Task) Prompt() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Task: %s\n\n", strings.TrimSpace(t.Description))
	fmt.Fprintf(&b, "This is the expected criteria for your final answer: %s\n", t.ExpectedOutput)
	b.WriteString("You MUST return the actual complete content as the final answer, not a summary.")

	if len(t.Context) > 0 {
		b.WriteString("\n\nThis is the context you're working with:\n")
		for _, prev := range t.Context {
			if prev.output == nil {
				return "", fmt.Errorf("%w: %q needs %q", ErrContextNotReady, t.Name, prev.Name)
			}
			fmt.Fprintf(&b, "\n### %s (%s)\n", prev.Name, prev.output.Agent)
			fmt.Fprintf(&b, "Task:\n%s\n\n", strings.TrimSpace(prev.Description))
			fmt.Fprintf(&b, "Result:\n%s\n", prev.output.Raw)
		}
	}

	if t.Agent != nil && len(t.Agent.Tools) > 0 {
		b.WriteString("\nBegin! This is VERY important to you, use the tools available and give your best Final Answer.")
	} else {
		b.WriteString("\nBegin! This is VERY important to you, give your best Final Answer.")
	}
	return b.String(), nil
}
