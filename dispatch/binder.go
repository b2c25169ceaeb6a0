package dispatch

import (
	"fmt"
	"net/url"
	"strconv"
)

// Source declares where a parameter's raw value is looked up.
type Source int

const (
	// SourcePath binds the parameter to a path variable captured by the
	// route's pattern.
	SourcePath Source = iota

	// SourceField binds the parameter to a request field. Form body and
	// URL query fields form one merged lookup namespace, mirroring the
	// merge performed by Request.ParseForm.
	SourceField
)

// Type declares the target type a raw value is coerced to.
type Type int

const (
	// TypeString passes the raw value through unchanged.
	TypeString Type = iota

	// TypeInt parses the raw value as a base-10 signed 64-bit integer.
	// Overflow and syntax errors are both malformed.
	TypeInt
)

// Param describes one handler parameter: where its raw value comes from,
// what type it is coerced to, and whether it must be present.
type Param struct {
	Name     string
	Source   Source
	Type     Type
	Required bool
}

// PathVar returns a required parameter bound to the named path variable.
func PathVar(name string, typ Type) Param {
	return Param{Name: name, Source: SourcePath, Type: typ, Required: true}
}

// Field returns a required parameter bound to the named form/query field.
func Field(name string, typ Type) Param {
	return Param{Name: name, Source: SourceField, Type: typ, Required: true}
}

// Optional returns a copy of the parameter with the required flag cleared.
// An absent optional parameter is simply left unbound.
func (p Param) Optional() Param {
	p.Required = false
	return p
}

// Params holds the successfully coerced values for one request, keyed by
// parameter name. Values are only present for parameters that bound.
type Params map[string]any

// Lookup returns the bound value for the named parameter and whether the
// parameter was bound at all.
func (p Params) Lookup(name string) (any, bool) {
	v, ok := p[name]
	return v, ok
}

// String returns the bound string value for the named parameter, or the
// empty string if the parameter is unbound or not a string.
func (p Params) String(name string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return ""
}

// Int returns the bound integer value for the named parameter, or zero if
// the parameter is unbound or not an integer.
func (p Params) Int(name string) int64 {
	if v, ok := p[name].(int64); ok {
		return v
	}
	return 0
}

// converter coerces a raw string value into a typed value.
type converter func(raw string) (any, error)

// converters is the coercion table, one rule per supported target type.
// Adding a target type means adding exactly one entry here.
var converters = map[Type]converter{
	TypeString: func(raw string) (any, error) {
		return raw, nil
	},
	TypeInt: func(raw string) (any, error) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return n, nil
	},
}

// bind coerces the raw values for every declared parameter. Parameters are
// checked in declaration order and the first failure aborts with a
// *BindError. Request fields that no parameter declares are ignored.
func bind(specs []Param, vars map[string]string, fields url.Values) (Params, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	bound := make(Params, len(specs))
	for _, spec := range specs {
		raw, ok := lookupRaw(spec, vars, fields)
		if !ok {
			if spec.Required {
				return nil, &BindError{Param: spec.Name, Reason: ReasonMissing}
			}
			continue
		}

		conv, ok := converters[spec.Type]
		if !ok {
			return nil, fmt.Errorf("dispatch: no converter for parameter %q", spec.Name)
		}

		v, err := conv(raw)
		if err != nil {
			return nil, &BindError{Param: spec.Name, Reason: ReasonMalformed, cause: err}
		}
		bound[spec.Name] = v
	}

	return bound, nil
}

// lookupRaw fetches the raw string for a parameter from its declared
// source. For multi-valued fields the first value wins, matching
// url.Values.Get.
func lookupRaw(spec Param, vars map[string]string, fields url.Values) (string, bool) {
	switch spec.Source {
	case SourcePath:
		v, ok := vars[spec.Name]
		return v, ok
	case SourceField:
		vs, ok := fields[spec.Name]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	}
	return "", false
}
