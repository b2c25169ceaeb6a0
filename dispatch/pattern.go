package dispatch

import (
	"fmt"
	"strings"
)

// segment is one element of a compiled path template: either a literal
// that must compare equal to the corresponding path segment, or a named
// variable that captures any non-empty segment.
type segment struct {
	literal string
	varName string // non-empty for a variable segment
}

// probeToken stands in for variable segments when building a canonical
// probe path for overlap detection. Templates may not contain a NUL byte,
// so the token can never collide with a registered literal.
const probeToken = "\x00"

// Pattern is a compiled path template per RFC 3986 Section 3.3, made of
// literal segments and named variable segments ({name}). Matching is
// segment-by-segment: segment counts must be equal, literals must compare
// equal, and a variable captures any non-empty segment. There is no
// wildcard or prefix matching.
type Pattern struct {
	template string
	segments []segment
	varsN    []string
}

// CompilePattern parses a path template and returns a compiled Pattern.
// A template is split on "/" with a single leading or trailing slash
// ignored. A segment of the form {name} declares a variable; variable
// names must be unique within one template. Interior empty segments,
// stray braces and NUL bytes are rejected.
func CompilePattern(tpl string) (*Pattern, error) {
	if strings.Contains(tpl, probeToken) {
		return nil, fmt.Errorf("dispatch: template %q contains a NUL byte", tpl)
	}

	raw := splitSegments(tpl)
	segments := make([]segment, 0, len(raw))
	var varsN []string

	for _, s := range raw {
		if s == "" {
			return nil, fmt.Errorf("dispatch: template %q contains an empty segment", tpl)
		}

		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			name := s[1 : len(s)-1]
			if name == "" {
				return nil, fmt.Errorf("dispatch: missing variable name in %q from %q", s, tpl)
			}
			if strings.ContainsAny(name, "{}") {
				return nil, fmt.Errorf("dispatch: malformed variable %q in %q", s, tpl)
			}
			for _, seen := range varsN {
				if seen == name {
					return nil, fmt.Errorf("dispatch: duplicated route variable %q in %q", name, tpl)
				}
			}
			varsN = append(varsN, name)
			segments = append(segments, segment{varName: name})
			continue
		}

		if strings.ContainsAny(s, "{}") {
			return nil, fmt.Errorf("dispatch: unbalanced braces in segment %q from %q", s, tpl)
		}

		segments = append(segments, segment{literal: s})
	}

	return &Pattern{
		template: tpl,
		segments: segments,
		varsN:    varsN,
	}, nil
}

// Match tests a concrete request path against the pattern. On success it
// returns the captured raw variable values keyed by name. Patterns without
// variables return a nil map on match.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	got := splitSegments(path)
	if len(got) != len(p.segments) {
		return nil, false
	}

	var vars map[string]string
	for i, seg := range p.segments {
		if seg.varName == "" {
			if got[i] != seg.literal {
				return nil, false
			}
			continue
		}

		// A variable never matches an empty segment. The split already
		// guarantees a segment cannot contain "/".
		if got[i] == "" {
			return nil, false
		}
		if vars == nil {
			vars = make(map[string]string, len(p.varsN))
		}
		vars[seg.varName] = got[i]
	}

	return vars, true
}

// Build performs the reverse operation of Match per RFC 3986 Section 5.3:
// it substitutes the given values into the variable segments and returns
// the resulting path. Every variable must be present and non-empty.
func (p *Pattern) Build(vars map[string]string) (string, error) {
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.varName == "" {
			b.WriteString(seg.literal)
			continue
		}

		v, ok := vars[seg.varName]
		if !ok || v == "" {
			return "", fmt.Errorf("dispatch: missing value for route variable %q in %q", seg.varName, p.template)
		}
		if strings.Contains(v, "/") {
			return "", fmt.Errorf("dispatch: value %q for route variable %q contains a slash", v, seg.varName)
		}
		b.WriteString(v)
	}

	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// Template returns the original template string.
func (p *Pattern) Template() string {
	return p.template
}

// Vars returns the variable names in template declaration order.
func (p *Pattern) Vars() []string {
	out := make([]string, len(p.varsN))
	copy(out, p.varsN)
	return out
}

// hasVar reports whether the pattern declares the named variable.
func (p *Pattern) hasVar(name string) bool {
	for _, v := range p.varsN {
		if v == name {
			return true
		}
	}
	return false
}

// combinedProbe returns a canonical concrete path used for overlap
// detection between two patterns of equal segment count. At each position
// a literal segment wins over the probeToken stand-in; where both
// patterns carry a literal, the first pattern's literal is kept so that
// differing literals make the probe fail the second matcher.
func combinedProbe(a, b *Pattern) (string, bool) {
	if len(a.segments) != len(b.segments) {
		return "", false
	}

	var sb strings.Builder
	for i, seg := range a.segments {
		sb.WriteByte('/')
		switch {
		case seg.varName == "":
			sb.WriteString(seg.literal)
		case b.segments[i].varName == "":
			sb.WriteString(b.segments[i].literal)
		default:
			sb.WriteString(probeToken)
		}
	}

	if sb.Len() == 0 {
		return "/", true
	}
	return sb.String(), true
}

// splitSegments splits a path or template on "/", dropping a single
// leading and trailing empty segment produced by a leading or trailing
// slash. "/" and "" both yield zero segments.
func splitSegments(s string) []string {
	parts := strings.Split(s, "/")
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
