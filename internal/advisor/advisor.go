/**
* Name: 			advisor.go
* Description: 		Nutrition advisor: turns a profile record into a crew run
* Workflow: 		render task descriptions, build fresh agents and tasks, kick off the crew
 */

package advisor

import (
	"context"
	"fmt"
	"log"

	"CommitBuddy_NutritionAdvisor/internal/crew"
	"CommitBuddy_NutritionAdvisor/internal/models"
)

// Name under which the web search tool is referenced in the crew definition.
const SearchToolKey = "search"

type Advisor struct {
	def     *Definition
	llm     crew.LLM
	tools   map[string]crew.Tool
	maxIter int
}

type Option func(*Advisor)

func WithTool(key string, tool crew.Tool) Option {
	return func(a *Advisor) {
		a.tools[key] = tool
	}
}

func WithMaxIter(n int) Option {
	return func(a *Advisor) {
		a.maxIter = n
	}
}

func New(def *Definition, model crew.LLM, opts ...Option) *Advisor {
	a := &Advisor{
		def:   def,
		llm:   model,
		tools: make(map[string]crew.Tool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildTasks creates the agents and the ordered task list for one request.
func (a *Advisor) BuildTasks(rec models.Record) ([]*crew.Task, error) {
	descriptions, err := a.def.Descriptions(rec)
	if err != nil {
		return nil, err
	}

	agents := make(map[string]*crew.Agent, len(a.def.Agents))
	for key, def := range a.def.Agents {
		agent := &crew.Agent{
			Role:      def.Role,
			Goal:      def.Goal,
			Backstory: def.Backstory,
			LLM:       a.llm,
			MaxIter:   a.maxIter,
		}
		for _, name := range def.Tools {
			tool, ok := a.tools[name]
			if !ok {
				return nil, fmt.Errorf("agent %q: tool %q is not configured", key, name)
			}
			agent.Tools = append(agent.Tools, tool)
		}
		agents[key] = agent
	}

	tasks := make([]*crew.Task, 0, len(a.def.Tasks))
	byName := make(map[string]*crew.Task, len(a.def.Tasks))
	for i, def := range a.def.Tasks {
		task := &crew.Task{
			Name:           def.Name,
			Description:    descriptions[i],
			ExpectedOutput: def.ExpectedOutput,
			Agent:          agents[def.Agent],
		}
		for _, name := range def.Context {
			task.Context = append(task.Context, byName[name])
		}
		byName[def.Name] = task
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Plan runs the whole crew for rec and returns its output. Failures are returned as-is.
func (a *Advisor) Plan(ctx context.Context, rec models.Record, opts ...crew.Option) (*crew.Output, error) {
	tasks, err := a.BuildTasks(rec)
	if err != nil {
		return nil, err
	}
	log.Printf("Advisor.Plan(): age=%s goals=%q", rec.Age, rec.Goals)
	return crew.New(tasks, opts...).Kickoff(ctx)
}
