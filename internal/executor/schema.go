package executor

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Wire contracts for the envelopes crossing the executor boundary.
// The task schema guards what this process sends; the result schema
// decides whether a backend's stdout is an envelope at all — anything
// that fails it takes the free-text fallback path instead.
const taskEnvelopeSchema = `{
  "type": "object",
  "required": ["task_id", "inputs"],
  "properties": {
    "task_id": {"type": "string", "minLength": 1},
    "inputs": {"type": ["object", "null"]},
    "constraints": {"type": ["object", "null"]},
    "expected_outputs": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

const resultEnvelopeSchema = `{
  "type": "object",
  "required": ["status"],
  "properties": {
    "task_id": {"type": "string"},
    "status": {"enum": ["success", "failure"]},
    "artifacts": {"type": ["array", "null"], "items": {"type": "string"}},
    "logs": {"type": ["array", "null"], "items": {"type": "string"}},
    "error": {"type": "string"}
  }
}`

var (
	envelopeSchemasOnce sync.Once
	taskSchema          *jsonschema.Schema
	resultSchema        *jsonschema.Schema
	envelopeSchemasErr  error
)

func compileEnvelopeSchemas() error {
	envelopeSchemasOnce.Do(func() {
		taskSchema, envelopeSchemasErr = compileSchema("task_envelope.json", taskEnvelopeSchema)
		if envelopeSchemasErr != nil {
			return
		}
		resultSchema, envelopeSchemasErr = compileSchema("result_envelope.json", resultEnvelopeSchema)
	})
	return envelopeSchemasErr
}

func compileSchema(name, def string) (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal([]byte(def), &doc); err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, err
	}
	return c.Compile(name)
}

// validateTaskEnvelope checks a marshalled outbound envelope before it
// leaves the process, so a malformed task surfaces here rather than as
// an opaque backend rejection.
func validateTaskEnvelope(payload []byte) error {
	if err := compileEnvelopeSchemas(); err != nil {
		return fmt.Errorf("executor: compile envelope schemas: %w", err)
	}
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("executor: parse task envelope: %w", err)
	}
	if err := taskSchema.Validate(doc); err != nil {
		return fmt.Errorf("executor: task envelope failed schema validation: %w", err)
	}
	return nil
}

// resultEnvelopeValid reports whether raw backend output is a
// structurally valid ResultEnvelope.
func resultEnvelopeValid(raw []byte) bool {
	if compileEnvelopeSchemas() != nil {
		return false
	}
	var doc any
	if json.Unmarshal(raw, &doc) != nil {
		return false
	}
	return resultSchema.Validate(doc) == nil
}
