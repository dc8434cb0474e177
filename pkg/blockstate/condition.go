package blockstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidCondition is returned for variant keys that are not "key=value" lists
var ErrInvalidCondition = errors.New("invalid variant condition")

// Pair is one key=value requirement of a condition
type Pair struct {
	Key   string
	Value Value
}

// Condition is a parsed variant key such as "facing=north,lit=true". The empty condition
// matches every block.
type Condition struct {
	Raw   string
	Pairs []Pair
}

// ParseCondition parses a comma separated list of key=value pairs
func ParseCondition(raw string) (Condition, error) {
	c := Condition{Raw: raw}
	if strings.TrimSpace(raw) == "" {
		return c, nil
	}
	for _, kv := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(kv), "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.Contains(value, "=") {
			return Condition{}, fmt.Errorf("%w %q: expected key=value,key1=value", ErrInvalidCondition, raw)
		}
		c.Pairs = append(c.Pairs, Pair{Key: key, Value: ParseValue(strings.TrimSpace(value))})
	}
	return c, nil
}

// IsEmpty reports whether the condition matches unconditionally
func (c Condition) IsEmpty() bool {
	return len(c.Pairs) == 0
}

// Matches reports whether every pair equals the corresponding property. A property the
// block does not have never matches.
func (c Condition) Matches(props Properties) bool {
	for _, p := range c.Pairs {
		v, ok := props[p.Key]
		if !ok || v != p.Value {
			return false
		}
	}
	return true
}

// Canonical returns the condition with its pairs sorted by key
func (c Condition) Canonical() string {
	pairs := make([]string, len(c.Pairs))
	for i, p := range c.Pairs {
		pairs[i] = p.Key + "=" + p.Value.String()
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// Op is the kind of a multipart condition node
type Op uint8

const (
	// Leaf requires each listed property to take one of its alternatives
	Leaf Op = iota
	And
	Or
)

// When is a multipart condition tree
type When struct {
	Op       Op
	Children []*When
	// Leaf property alternatives, e.g. "north": {"true"} or "facing": {"east", "west"}
	Props map[string][]string
}

// UnmarshalJSON decodes {"OR": [...]}, {"AND": [...]} or a leaf property map
func (w *When) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	for _, op := range []struct {
		key string
		op  Op
	}{{"OR", Or}, {"AND", And}} {
		raw, ok := fields[op.key]
		if !ok {
			continue
		}
		if len(fields) != 1 {
			return fmt.Errorf("%s must be the only key of a multipart condition", op.key)
		}
		var children []*When
		if err := json.Unmarshal(raw, &children); err != nil {
			return err
		}
		*w = When{Op: op.op, Children: children}
		return nil
	}

	props := make(map[string][]string, len(fields))
	for key, raw := range fields {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			// Booleans and numbers are occasionally written unquoted.
			s = string(raw)
		}
		props[key] = strings.Split(s, "|")
	}
	*w = When{Op: Leaf, Props: props}
	return nil
}

// Matches evaluates the tree, stopping at the first child that decides the result. A nil
// tree always matches.
func (w *When) Matches(props Properties) bool {
	if w == nil {
		return true
	}
	switch w.Op {
	case Or:
		for _, c := range w.Children {
			if c.Matches(props) {
				return true
			}
		}
		return false
	case And:
		for _, c := range w.Children {
			if !c.Matches(props) {
				return false
			}
		}
		return true
	default:
		for key, alternatives := range w.Props {
			v, ok := props[key]
			if !ok || !matchesAny(v, alternatives) {
				return false
			}
		}
		return true
	}
}

func matchesAny(v Value, alternatives []string) bool {
	for _, alt := range alternatives {
		if ParseValue(alt) == v {
			return true
		}
	}
	return false
}
