package advisor

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"

	"CommitBuddy_NutritionAdvisor/internal/models"
)

//go:embed crew.yaml
var defaultDefinition []byte

var ErrInvalidDefinition = errors.New("invalid crew definition")

type AgentDef struct {
	Role      string   `yaml:"role"`
	Goal      string   `yaml:"goal"`
	Backstory string   `yaml:"backstory"`
	Tools     []string `yaml:"tools"`
}

type TaskDef struct {
	Name           string   `yaml:"name"`
	Agent          string   `yaml:"agent"`
	Description    string   `yaml:"description"`
	ExpectedOutput string   `yaml:"expected_output"`
	Context        []string `yaml:"context"`

	tmpl *template.Template
}

// Definition is the crew layout: named agents and an ordered task list.
type Definition struct {
	Agents map[string]AgentDef `yaml:"agents"`
	Tasks  []TaskDef           `yaml:"tasks"`
}

// LoadDefinition reads a crew definition from path, or the built-in one when path is empty.
// knownTools lists the tool names agents may reference.
func LoadDefinition(path string, knownTools ...string) (*Definition, error) {
	data := defaultDefinition
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read crew definition: %w", err)
		}
		data = b
	}
	return ParseDefinition(data, knownTools...)
}

func ParseDefinition(data []byte, knownTools ...string) (*Definition, error) {
	def := new(Definition)
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("parse crew definition: %w", err)
	}
	if err := def.check(knownTools); err != nil {
		return nil, err
	}
	return def, nil
}

func (d *Definition) check(knownTools []string) error {
	if len(d.Tasks) == 0 {
		return fmt.Errorf("%w: no tasks", ErrInvalidDefinition)
	}
	tools := make(map[string]struct{}, len(knownTools))
	for _, name := range knownTools {
		tools[name] = struct{}{}
	}
	for key, agent := range d.Agents {
		if agent.Role == "" {
			return fmt.Errorf("%w: agent %q has no role", ErrInvalidDefinition, key)
		}
		for _, name := range agent.Tools {
			if _, ok := tools[name]; !ok {
				return fmt.Errorf("%w: agent %q uses unknown tool %q", ErrInvalidDefinition, key, name)
			}
		}
	}

	seen := make(map[string]struct{}, len(d.Tasks))
	for i := range d.Tasks {
		task := &d.Tasks[i]
		if task.Name == "" {
			return fmt.Errorf("%w: task %d has no name", ErrInvalidDefinition, i+1)
		}
		if _, dup := seen[task.Name]; dup {
			return fmt.Errorf("%w: duplicate task %q", ErrInvalidDefinition, task.Name)
		}
		if _, ok := d.Agents[task.Agent]; !ok {
			return fmt.Errorf("%w: task %q uses unknown agent %q", ErrInvalidDefinition, task.Name, task.Agent)
		}
		// context may only point backwards
		for _, name := range task.Context {
			if _, ok := seen[name]; !ok {
				return fmt.Errorf("%w: task %q context %q is not an earlier task", ErrInvalidDefinition, task.Name, name)
			}
		}
		tmpl, err := template.New(task.Name).Option("missingkey=error").Parse(task.Description)
		if err != nil {
			return fmt.Errorf("%w: task %q description: %v", ErrInvalidDefinition, task.Name, err)
		}
		task.tmpl = tmpl
		seen[task.Name] = struct{}{}
	}
	return nil
}

// Descriptions renders every task description for rec, in task order.
func (d *Definition) Descriptions(rec models.Record) ([]string, error) {
	out := make([]string, 0, len(d.Tasks))
	for _, task := range d.Tasks {
		var buf bytes.Buffer
		if err := task.tmpl.Execute(&buf, rec); err != nil {
			return nil, fmt.Errorf("render task %q: %w", task.Name, err)
		}
		out = append(out, buf.String())
	}
	return out, nil
}
