package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Label holds a category or genre value that the source files write either
// as a single string or as a list. Values are stored already cleaned of the
// legacy [[wiki-link]] brackets.
type Label struct {
	values   []string
	multiple bool
}

// Single returns a Label holding one value.
func Single(v string) Label {
	l := Label{}
	if c := StripBrackets(v); c != "" {
		l.values = []string{c}
	}
	return l
}

// Multiple returns a Label holding a list of values.
func Multiple(vs ...string) Label {
	l := Label{multiple: true}
	for _, v := range vs {
		if c := StripBrackets(v); c != "" {
			l.values = append(l.values, c)
		}
	}
	return l
}

// IsZero reports whether the label carries no value.
func (l Label) IsZero() bool { return len(l.values) == 0 }

// IsMultiple reports whether the label was written as a list.
func (l Label) IsMultiple() bool { return l.multiple }

// Values returns the cleaned values.
func (l Label) Values() []string {
	out := make([]string, len(l.values))
	copy(out, l.values)
	return out
}

// First returns the first value or "".
func (l Label) First() string {
	if len(l.values) == 0 {
		return ""
	}
	return l.values[0]
}

// Display joins the values for presentation.
func (l Label) Display() string {
	return strings.Join(l.values, ", ")
}

// Has reports whether v matches one of the values, ignoring case.
func (l Label) Has(v string) bool {
	v = strings.ToLower(StripBrackets(v))
	for _, x := range l.values {
		if strings.ToLower(x) == v {
			return true
		}
	}
	return false
}

func (l Label) String() string { return l.Display() }

// UnmarshalYAML accepts a scalar or a sequence.
func (l *Label) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*l = Label{}
	case []interface{}:
		vals := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			vals = append(vals, fmt.Sprint(item))
		}
		*l = Multiple(vals...)
	default:
		*l = Single(fmt.Sprint(v))
	}
	return nil
}

// UnmarshalJSON accepts a string or an array of strings.
func (l *Label) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*l = Multiple(list...)
		return nil
	}
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("label: %w", err)
	}
	if s == nil {
		*l = Label{}
		return nil
	}
	*l = Single(*s)
	return nil
}

// MarshalJSON writes the same shape the value was read in.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.multiple {
		return json.Marshal(l.Values())
	}
	return json.Marshal(l.First())
}

// StringList is a list field that also tolerates a single scalar value.
type StringList []string

// UnmarshalYAML accepts a scalar or a sequence.
func (s *StringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		*s = out
	default:
		*s = StringList{fmt.Sprint(v)}
	}
	return nil
}
