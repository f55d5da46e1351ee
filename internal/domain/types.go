package domain

import (
	"encoding/json"
	"strconv"
)

// Number is a point weight that keeps the int/float distinction made by the
// header tokenizer, so that points=1 round-trips as 1 and points=0.5 as 0.5.
type Number struct {
	i       int
	f       float64
	isFloat bool
}

// IntNumber wraps an integer weight.
func IntNumber(v int) Number { return Number{i: v} }

// FloatNumber wraps a fractional weight.
func FloatNumber(v float64) Number { return Number{f: v, isFloat: true} }

// Float returns the weight as a float64 regardless of how it was written.
func (n Number) Float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// MarshalJSON writes the number without a decimal part when it was written
// as an integer.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.isFloat {
		return []byte(strconv.FormatFloat(n.f, 'g', -1, 64)), nil
	}
	return []byte(strconv.Itoa(n.i)), nil
}

// Test is the top-level artifact produced from one document cell. A Test is
// built once per cell, mutated only by header merges and suite appends while
// parsing, and never changed afterwards.
type Test struct {
	Name   string // empty means never set; marshals as null
	Points Number
	Suites []*Suite
	Extra  Params
}

// NewTest returns a Test populated with the header defaults: no name, one
// point, no suites.
func NewTest() *Test {
	return &Test{Points: IntNumber(1), Extra: Params{}}
}

// Apply merges a #t header's parameters onto the test. Known keys land in
// the typed fields, everything else passes through into Extra.
func (t *Test) Apply(p Params) error {
	for k, v := range p {
		switch k {
		case "name":
			s, ok := v.(string)
			if !ok {
				return NewHeaderError(-1, "name must be a string, got %v", v)
			}
			t.Name = s
		case "points":
			switch n := v.(type) {
			case int:
				t.Points = IntNumber(n)
			case float64:
				t.Points = FloatNumber(n)
			default:
				return NewHeaderError(-1, "points must be a number, got %v", v)
			}
		case "suites":
			return NewHeaderError(-1, "suites is a reserved parameter name")
		default:
			t.Extra[k] = v
		}
	}
	return nil
}

// MarshalJSON flattens Extra into the test object alongside the named keys.
func (t *Test) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(t.Extra)+3)
	for k, v := range t.Extra {
		m[k] = v
	}
	if t.Name == "" {
		m["name"] = nil
	} else {
		m["name"] = t.Name
	}
	m["points"] = t.Points
	suites := t.Suites
	if suites == nil {
		suites = []*Suite{}
	}
	m["suites"] = suites
	return json.Marshal(m)
}

// Suite groups cases sharing setup, teardown, scoring and execution type.
type Suite struct {
	Cases    []*Case
	Scored   bool
	Setup    string
	Teardown string
	Type     string
	Extra    Params
}

// DefaultSuite returns the template for the first suite of a test.
func DefaultSuite() *Suite {
	return &Suite{Scored: true, Type: "doctest", Extra: Params{}}
}

// CloneTemplate returns a new Suite carrying this suite's resolved
// parameters but none of its cases. Later suites of a block inherit from the
// suite before them rather than resetting to the defaults.
func (s *Suite) CloneTemplate() *Suite {
	return &Suite{
		Scored:   s.Scored,
		Setup:    s.Setup,
		Teardown: s.Teardown,
		Type:     s.Type,
		Extra:    s.Extra.Clone(),
	}
}

// Apply merges a #s header's parameters onto the suite.
func (s *Suite) Apply(p Params) error {
	for k, v := range p {
		switch k {
		case "scored":
			b, ok := v.(bool)
			if !ok {
				return NewHeaderError(-1, "scored must be a boolean, got %v", v)
			}
			s.Scored = b
		case "setup", "teardown", "type":
			str, ok := v.(string)
			if !ok {
				return NewHeaderError(-1, "%s must be a string, got %v", k, v)
			}
			switch k {
			case "setup":
				s.Setup = str
			case "teardown":
				s.Teardown = str
			case "type":
				s.Type = str
			}
		case "cases":
			return NewHeaderError(-1, "cases is a reserved parameter name")
		default:
			s.Extra[k] = v
		}
	}
	return nil
}

// MarshalJSON flattens Extra into the suite object alongside the named keys.
func (s *Suite) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.Extra)+5)
	for k, v := range s.Extra {
		m[k] = v
	}
	cases := s.Cases
	if cases == nil {
		cases = []*Case{}
	}
	m["cases"] = cases
	m["scored"] = s.Scored
	m["setup"] = s.Setup
	m["teardown"] = s.Teardown
	m["type"] = s.Type
	return json.Marshal(m)
}

// Case is one assertion unit with its verbatim source. Code accumulates one
// plain line at a time; a case that never receives a line keeps no code at
// all, which is distinct from a case whose code is a single empty line.
type Case struct {
	Hidden bool
	Locked bool
	Extra  Params

	code    string
	codeSet bool
}

// DefaultCase returns the template for the first case of a suite.
func DefaultCase() *Case {
	return &Case{Extra: Params{}}
}

// CloneTemplate returns a new Case carrying this case's resolved parameters
// but no code. Later cases of a suite inherit from the case before them.
func (c *Case) CloneTemplate() *Case {
	return &Case{Hidden: c.Hidden, Locked: c.Locked, Extra: c.Extra.Clone()}
}

// AppendCode adds one plain line to the case's code, newline-joined.
func (c *Case) AppendCode(line string) {
	if !c.codeSet {
		c.code = line
		c.codeSet = true
		return
	}
	c.code += "\n" + line
}

// Code returns the accumulated code and whether any line was ever added.
func (c *Case) Code() (string, bool) {
	return c.code, c.codeSet
}

// Apply merges a #c header's parameters onto the case. A code parameter
// seeds the accumulator as if it were the first plain line.
func (c *Case) Apply(p Params) error {
	for k, v := range p {
		switch k {
		case "hidden", "locked":
			b, ok := v.(bool)
			if !ok {
				return NewHeaderError(-1, "%s must be a boolean, got %v", k, v)
			}
			if k == "hidden" {
				c.Hidden = b
			} else {
				c.Locked = b
			}
		case "code":
			str, ok := v.(string)
			if !ok {
				return NewHeaderError(-1, "code must be a string, got %v", v)
			}
			c.code = str
			c.codeSet = true
		default:
			c.Extra[k] = v
		}
	}
	return nil
}

// MarshalJSON flattens Extra into the case object alongside the named keys.
// Code that was never set marshals as null.
func (c *Case) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Extra)+3)
	for k, v := range c.Extra {
		m[k] = v
	}
	if c.codeSet {
		m["code"] = c.code
	} else {
		m["code"] = nil
	}
	m["hidden"] = c.Hidden
	m["locked"] = c.Locked
	return json.Marshal(m)
}
