package task

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ronuchit/kstar/internal/types"
)

// Load parses a task from YAML bytes, assigns operator ids in declaration
// order, and validates the result.
func Load(data []byte) (*Task, error) {
	var t Task
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, types.WrapError(types.TASK_PARSE_FAILED, "failed to parse task YAML", err)
	}
	for i := range t.Operators {
		t.Operators[i].ID = i
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads and parses a task definition file.
func LoadFile(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(types.TASK_LOAD_FAILED, "failed to read task file", err)
	}
	return Load(data)
}
