// Package blockstate parses block-state definitions and resolves block instances to
// baked models.
package blockstate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Variant is one candidate model of a block state
type Variant struct {
	Model  string `json:"model"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	UVLock bool   `json:"uvlock,omitempty"`
}

// Choice is a list of equally weighted variants; a single variant object decodes as a
// list of one
type Choice []Variant

// UnmarshalJSON accepts either a variant object or an array of them
func (c *Choice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var many []Variant
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		if len(many) == 0 {
			return errors.New("empty variant list")
		}
		*c = many
		return nil
	}
	var one Variant
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*c = Choice{one}
	return nil
}

// Case is one variant table entry
type Case struct {
	Condition Condition
	Choice    Choice
}

// Part is one multipart entry; When is nil for parts applied unconditionally
type Part struct {
	When  *When  `json:"when,omitempty"`
	Apply Choice `json:"apply"`
}

// Definition is a parsed block-state file. Exactly one of Variants and Multipart is set.
type Definition struct {
	Name string
	// Variants keeps the order the conditions are written in
	Variants  []Case
	Multipart []Part
}

// IsMultipart reports whether the definition uses multipart rules
func (d *Definition) IsMultipart() bool {
	return d.Multipart != nil
}

type definitionJSON struct {
	Variants  json.RawMessage `json:"variants"`
	Multipart []Part          `json:"multipart"`
}

// Parse decodes a block-state file
func Parse(name string, data []byte) (*Definition, error) {
	var raw definitionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	d := &Definition{Name: name}
	switch {
	case raw.Variants != nil && raw.Multipart != nil:
		return nil, errors.New("variants and multipart are mutually exclusive")
	case raw.Variants != nil:
		cases, err := parseVariants(raw.Variants)
		if err != nil {
			return nil, err
		}
		d.Variants = cases
	case raw.Multipart != nil:
		d.Multipart = raw.Multipart
	default:
		return nil, errors.New("expected variants or multipart")
	}
	return d, nil
}

// parseVariants walks the variants object token by token so the table keeps file order
func parseVariants(data json.RawMessage) ([]Case, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errors.New("variants must be an object")
	}

	cases := []Case{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)

		cond, err := ParseCondition(key)
		if err != nil {
			return nil, err
		}
		var choice Choice
		if err := dec.Decode(&choice); err != nil {
			return nil, fmt.Errorf("variant %q: %w", key, err)
		}
		cases = append(cases, Case{Condition: cond, Choice: choice})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return cases, nil
}
