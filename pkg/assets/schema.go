package assets

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// CompileSchema compiles an embedded JSON schema registered under url
func CompileSchema(url string, schema []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", url, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", url, err)
	}
	return s, nil
}

// MustCompileSchema is like CompileSchema but panics on error. It is meant for schemas
// compiled into the binary.
func MustCompileSchema(url string, schema []byte) *jsonschema.Schema {
	s, err := CompileSchema(url, schema)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks raw JSON against a schema
func Validate(s *jsonschema.Schema, data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return s.Validate(doc)
}
