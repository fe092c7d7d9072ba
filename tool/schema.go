package tool

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

var reflector = jsonschema.Reflector{
	DoNotReference: true,
	ExpandedStruct: true,
}

// SchemaFor generates an inline JSON schema for the parameters struct T.
// Field descriptions come from `jsonschema:"description=..."` tags and
// fields without omitempty are required.
func SchemaFor[T any]() (json.RawMessage, error) {
	var zero T
	s := reflector.Reflect(&zero)
	if s.Type != "object" {
		return nil, fmt.Errorf("tool: parameters must be a struct, got %q", s.Type)
	}
	s.Version = ""
	s.ID = ""
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("tool: encode schema: %w", err)
	}
	return data, nil
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	s, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}
