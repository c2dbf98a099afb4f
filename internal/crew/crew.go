/**
* Name: 			crew.go
* Description: 		Sequential crew: runs tasks in order, each seeing its context tasks' results
* Workflow: 		assign run id, render prompt, execute agent, record output, next task
 */

package crew

import (
	"context"
	"errors"
	"fmt"
	"log"

	"CommitBuddy_NutritionAdvisor/internal/llm"

	"github.com/google/uuid"
)

var (
	ErrNoTasks         = errors.New("crew has no tasks")
	ErrNoAgent         = errors.New("task has no agent")
	ErrContextNotReady = errors.New("context task has not run")
)

type Crew struct {
	tasks       []*Task
	onTaskStart func(runID string, task *Task)
	onTaskEnd   func(runID string, out TaskOutput)
}

type Option func(*Crew)

// WithTaskStartCallback is invoked right before each task's LLM work begins.
func WithTaskStartCallback(fn func(runID string, task *Task)) Option {
	return func(c *Crew) {
		c.onTaskStart = fn
	}
}

// WithTaskCallback is invoked after each task finishes successfully.
func WithTaskCallback(fn func(runID string, out TaskOutput)) Option {
	return func(c *Crew) {
		c.onTaskEnd = fn
	}
}

type Output struct {
	RunID string       `json:"run_id"`
	Raw   string       `json:"raw"`
	Tasks []TaskOutput `json:"tasks"`
	Usage llm.Usage    `json:"usage"`
}

func New(tasks []*Task, opts ...Option) *Crew {
	c := &Crew{tasks: tasks}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kickoff runs every task in order and stops at the first failure.
func (c *Crew) Kickoff(ctx context.Context) (*Output, error) {
	if len(c.tasks) == 0 {
		return nil, ErrNoTasks
	}
	out := &Output{
		RunID: uuid.New().String(),
		Tasks: make([]TaskOutput, 0, len(c.tasks)),
	}
	log.Printf("Crew.Kickoff(): run %s started with %d tasks", out.RunID, len(c.tasks))

	for idx, task := range c.tasks {
		if task.Agent == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoAgent, task.Name)
		}
		prompt, err := task.Prompt()
		if err != nil {
			return nil, err
		}
		if fn := c.onTaskStart; fn != nil {
			fn(out.RunID, task)
		}

		log.Printf("Crew.Kickoff(): run %s task %d/%d %q -> %s", out.RunID, idx+1, len(c.tasks), task.Name, task.Agent.Role)
		raw, usage, err := task.Agent.Execute(ctx, prompt)
		if err != nil {
			log.Printf("[ERROR] Crew.Kickoff(): run %s task %q failed: %v", out.RunID, task.Name, err)
			return nil, fmt.Errorf("task %q (%s): %w", task.Name, task.Agent.Role, err)
		}

		task.output = &TaskOutput{
			Name:        task.Name,
			Agent:       task.Agent.Role,
			Description: task.Description,
			Raw:         raw,
			Usage:       usage,
		}
		out.Tasks = append(out.Tasks, *task.output)
		out.Usage.Merge(usage)
		out.Raw = raw

		if fn := c.onTaskEnd; fn != nil {
			fn(out.RunID, *task.output)
		}
	}

	log.Printf("Crew.Kickoff(): run %s finished, tokens in=%d out=%d", out.RunID, out.Usage.InputTokens, out.Usage.OutputTokens)
	return out, nil
}
