package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// payloadSchemaURL identifies the embedded schema inside the compiler.
const payloadSchemaURL = "searchsync://webhook-payload.json"

// payloadSchema accepts either a page event or a content event. IDs may
// arrive as numbers or numeric strings.
const payloadSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"$defs": {
		"id": {
			"anyOf": [
				{"type": "integer", "minimum": 1},
				{"type": "string", "pattern": "^[0-9]*[1-9][0-9]*$"}
			]
		}
	},
	"properties": {
		"pageID": {"$ref": "#/$defs/id"},
		"contentID": {"$ref": "#/$defs/id"},
		"referenceName": {"type": "string", "minLength": 1},
		"state": {"enum": ["Published", "Updated", "Deleted", "Unpublished"]}
	},
	"required": ["state"],
	"oneOf": [
		{"required": ["pageID"], "not": {"anyOf": [{"required": ["contentID"]}, {"required": ["referenceName"]}]}},
		{"required": ["referenceName", "contentID"], "not": {"required": ["pageID"]}}
	]
}`

// PayloadValidator checks raw webhook bodies and turns them into events.
type PayloadValidator struct {
	schema *jsonschema.Schema
}

// NewPayloadValidator compiles the payload schema.
func NewPayloadValidator() (*PayloadValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(payloadSchema))
	if err != nil {
		return nil, fmt.Errorf("parse payload schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(payloadSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add payload schema: %w", err)
	}
	schema, err := compiler.Compile(payloadSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile payload schema: %w", err)
	}
	return &PayloadValidator{schema: schema}, nil
}

// payload is the decoded webhook body.
type payload struct {
	PageID        flexibleID `json:"pageID"`
	ContentID     flexibleID `json:"contentID"`
	ReferenceName string     `json:"referenceName"`
	State         string     `json:"state"`
}

// Decode validates body against the schema and returns the event it describes.
// Any failure wraps domain.ErrInvalidInput.
func (v *PayloadValidator) Decode(body []byte) (domain.ChangeEvent, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("%w: body is not JSON: %w", domain.ErrInvalidInput, err)
	}
	if err := v.schema.Validate(inst); err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	state := domain.ContentState(p.State)
	var event domain.ChangeEvent
	if p.PageID > 0 {
		event = domain.NewPageEvent(int(p.PageID), state)
	} else {
		event = domain.NewContentEvent(p.ReferenceName, int(p.ContentID), state)
	}
	if err := event.Validate(); err != nil {
		return domain.ChangeEvent{}, err
	}
	return event, nil
}

// flexibleID decodes an ID sent as a JSON number or a numeric string.
type flexibleID int

// UnmarshalJSON implements json.Unmarshaler.
func (id *flexibleID) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)
	if text == "" || text == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("id %s is not an integer", data)
	}
	*id = flexibleID(n)
	return nil
}
