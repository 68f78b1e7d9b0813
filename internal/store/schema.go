package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// stateSchema is the shape contract a persisted ProjectState document
// must satisfy before it is unmarshalled. json.Unmarshal alone is too
// forgiving for a hand-editable file: a string where version should be,
// or an object where pendingTasks should be, decodes to a zero field
// and resurfaces much later as a corrupted transition. Container fields
// admit null because a zero-value aggregate marshals nil slices that
// way.
const stateSchema = `{
  "type": "object",
  "required": ["projectId", "phase", "version", "updatedAt"],
  "properties": {
    "projectId": {"type": "string", "minLength": 1},
    "phase": {"type": "string"},
    "version": {"type": "integer", "minimum": 0},
    "updatedAt": {"type": "string"},
    "goal": {"type": "string"},
    "context": {"type": ["object", "null"]},
    "plans": {"type": ["object", "null"]},
    "currentPlanId": {"type": "string"},
    "pendingTasks": {"type": ["array", "null"]},
    "approvals": {"type": ["array", "null"]},
    "clarifications": {"type": ["array", "null"]},
    "discussion": {"type": ["array", "null"]},
    "execution": {"type": ["object", "null"]},
    "settings": {"type": ["object", "null"]},
    "history": {"type": ["array", "null"]}
  }
}`

var (
	stateSchemaOnce     sync.Once
	compiledStateSchema *jsonschema.Schema
	stateSchemaErr      error
)

// validateStateDocument checks a raw persisted document against
// stateSchema. Both stores call it on Load, before unmarshalling into
// the aggregate.
func validateStateDocument(data []byte) error {
	stateSchemaOnce.Do(func() {
		var schemaDoc any
		if err := json.Unmarshal([]byte(stateSchema), &schemaDoc); err != nil {
			stateSchemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("state.json", schemaDoc); err != nil {
			stateSchemaErr = err
			return
		}
		compiledStateSchema, stateSchemaErr = c.Compile("state.json")
	})
	if stateSchemaErr != nil {
		return fmt.Errorf("store: compile state schema: %w", stateSchemaErr)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("store: parse state document: %w", err)
	}
	if err := compiledStateSchema.Validate(doc); err != nil {
		return fmt.Errorf("store: state document failed schema validation: %w", err)
	}
	return nil
}
