// Package schema validates the structured payloads handed over by the
// classification, investigation, and action collaborators before the
// decision core consumes them. Validation failures never abort triage;
// they feed the evaluator's hard-stop computation as error-message lists.
package schema

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/EeswaraReddy/L1agent/internal/types"
)

const intentSchema = `{
  "type": "object",
  "properties": {
    "intent": {"type": "string"},
    "confidence": {"type": "number"},
    "rationale": {"type": "string"}
  },
  "required": ["intent", "confidence", "rationale"],
  "additionalProperties": true
}`

const investigationSchema = `{
  "type": "object",
  "properties": {
    "intent": {"type": "string"},
    "evidence": {"type": "object"}
  },
  "required": ["intent", "evidence"],
  "additionalProperties": true
}`

const actionSchema = `{
  "type": "object",
  "properties": {
    "intent": {"type": "string"},
    "actions": {"type": "array"},
    "status": {"type": "string"}
  },
  "required": ["intent", "actions", "status"],
  "additionalProperties": true
}`

const outcomeSchema = `{
  "type": "object",
  "properties": {
    "incident_id": {"type": "string"},
    "intent": {"type": "object"},
    "investigation": {"type": "object"},
    "actions": {"type": "object"},
    "policy": {"type": "object"},
    "rca": {"type": "object"}
  },
  "required": ["incident_id", "intent", "investigation", "actions", "policy", "rca"],
  "additionalProperties": true
}`

// Validator holds the compiled Draft 2020-12 schemas for collaborator
// payloads. Build once at startup; safe for concurrent use.
type Validator struct {
	intent        *jsonschema.Schema
	investigation *jsonschema.Schema
	action        *jsonschema.Schema
	outcome       *jsonschema.Schema
}

func compile(name, source string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://l1agent.schemas.local/%s.schema.json", name)
	if err := c.AddResource(url, strings.NewReader(source)); err != nil {
		return nil, types.WrapError(types.SCHEMA_COMPILE_FAILED, "load "+name+" schema", err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, types.WrapError(types.SCHEMA_COMPILE_FAILED, "compile "+name+" schema", err)
	}
	return schema, nil
}

// NewValidator compiles the collaborator payload schemas.
func NewValidator() (*Validator, error) {
	v := &Validator{}
	var err error
	if v.intent, err = compile("intent", intentSchema); err != nil {
		return nil, err
	}
	if v.investigation, err = compile("investigation", investigationSchema); err != nil {
		return nil, err
	}
	if v.action, err = compile("action", actionSchema); err != nil {
		return nil, err
	}
	if v.outcome, err = compile("outcome", outcomeSchema); err != nil {
		return nil, err
	}
	return v, nil
}

// messages flattens a validation error into human-readable strings, one
// per leaf cause, in stable order.
func messages(err error) []string {
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+e.Message)
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return out
}

// ValidateIntent checks an intent payload. Returns error messages, empty
// when valid.
func (v *Validator) ValidateIntent(payload map[string]any) []string {
	return messages(v.intent.Validate(payload))
}

// ValidateInvestigation checks an investigation payload.
func (v *Validator) ValidateInvestigation(payload map[string]any) []string {
	return messages(v.investigation.Validate(payload))
}

// ValidateAction checks an action payload.
func (v *Validator) ValidateAction(payload map[string]any) []string {
	return messages(v.action.Validate(payload))
}

// ValidateOutcome checks the fully assembled triage outcome document.
func (v *Validator) ValidateOutcome(payload map[string]any) []string {
	return messages(v.outcome.Validate(payload))
}
