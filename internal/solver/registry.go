package solver

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry is the planner catalogue loaded from a yaml file:
//
//	planners:
//	  my-planner:
//	    command: ["my-planner", "{domain}", "{problem}", "--out", "{plan}"]
//
// Commands are argv templates; {domain}, {problem} and {plan} are replaced
// with the written file paths. A {bound} placeholder marks the planner as
// bounded-cost capable and enables anytime iteration.
type Registry struct {
	Planners map[string]PlannerConfig `yaml:"planners"`
}

type PlannerConfig struct {
	Command []string `yaml:"command"`
}

func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRegistry(data)
}

func ParseRegistry(data []byte) (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("malformed planner registry: %w", err)
	}
	for name, cfg := range r.Planners {
		if len(cfg.Command) == 0 {
			return nil, fmt.Errorf("planner %q has an empty command", name)
		}
	}
	return &r, nil
}

// Planner resolves a configured planner by name.
func (r *Registry) Planner(name string) (PlannerConfig, error) {
	cfg, ok := r.Planners[name]
	if !ok {
		return PlannerConfig{}, fmt.Errorf("planner %q is not in the registry", name)
	}
	return cfg, nil
}

// SupportsBound reports whether the command template carries a {bound}
// placeholder.
func (c PlannerConfig) SupportsBound() bool {
	for _, arg := range c.Command {
		if strings.Contains(arg, "{bound}") {
			return true
		}
	}
	return false
}

// argv expands the command template. A negative bound drops the arguments
// mentioning {bound}.
func (c PlannerConfig) argv(domain, problem, plan string, bound int) []string {
	out := make([]string, 0, len(c.Command))
	for _, arg := range c.Command {
		if strings.Contains(arg, "{bound}") {
			if bound < 0 {
				continue
			}
			arg = strings.ReplaceAll(arg, "{bound}", strconv.Itoa(bound))
		}
		arg = strings.ReplaceAll(arg, "{domain}", domain)
		arg = strings.ReplaceAll(arg, "{problem}", problem)
		arg = strings.ReplaceAll(arg, "{plan}", plan)
		out = append(out, arg)
	}
	return out
}
