package manifest

import (
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/relay/dispatch"
)

// Registry maps manifest handler names to handler functions. Route-owning
// code populates it once at startup; Apply looks handlers up by name.
type Registry map[string]dispatch.HandlerFunc

// Document is the root of a route manifest.
type Document struct {
	Routes []Route `yaml:"routes"`
}

// Route declares one route of the manifest.
type Route struct {
	// Method is the HTTP method token, e.g. "GET".
	Method string `yaml:"method"`

	// Path is the route's path template, e.g. "/api/resource/{id}".
	Path string `yaml:"path"`

	// Handler names a function in the Registry passed to Apply.
	Handler string `yaml:"handler"`

	// Status overrides the success status code. Zero means 200 OK.
	Status int `yaml:"status,omitempty"`

	// Params declares the handler's parameters in binding order.
	Params []Param `yaml:"params,omitempty"`
}

// Param declares one handler parameter of a manifest route.
type Param struct {
	Name string `yaml:"name"`

	// In is the parameter source: "path" or "field".
	In string `yaml:"in"`

	// Type is the target type: "string" or "int".
	Type string `yaml:"type"`

	// Optional clears the required flag. Parameters are required by
	// default, matching dispatch.PathVar and dispatch.Field.
	Optional bool `yaml:"optional,omitempty"`
}

// Parse decodes a YAML route manifest.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return &doc, nil
}

// Encode serializes the document back to YAML.
func (d *Document) Encode() ([]byte, error) {
	return yaml.Marshal(d)
}

// Apply registers every route of the manifest against the engine,
// resolving handler names through the registry. Registration errors
// (duplicate routes, ambiguous patterns, bad templates, unknown handlers)
// abort on the first failure; they are configuration errors meant to be
// fatal to startup.
func (d *Document) Apply(e *dispatch.Engine, handlers Registry) error {
	for _, r := range d.Routes {
		fn, ok := handlers[r.Handler]
		if !ok {
			return fmt.Errorf("manifest: unknown handler %q for %s %q", r.Handler, r.Method, r.Path)
		}

		specs := make([]dispatch.Param, 0, len(r.Params))
		for _, p := range r.Params {
			spec, err := p.spec()
			if err != nil {
				return fmt.Errorf("manifest: route %s %q: %w", r.Method, r.Path, err)
			}
			specs = append(specs, spec)
		}

		h := dispatch.NewHandler(fn, specs...)
		if r.Status != 0 {
			h.Status(r.Status)
		}

		if err := e.Register(r.Method, r.Path, h); err != nil {
			return err
		}
	}

	return nil
}

// spec converts a manifest parameter to a dispatch parameter declaration.
func (p Param) spec() (dispatch.Param, error) {
	var typ dispatch.Type
	switch p.Type {
	case "string":
		typ = dispatch.TypeString
	case "int":
		typ = dispatch.TypeInt
	default:
		return dispatch.Param{}, fmt.Errorf("unknown parameter type %q for %q", p.Type, p.Name)
	}

	var spec dispatch.Param
	switch p.In {
	case "path":
		spec = dispatch.PathVar(p.Name, typ)
	case "field":
		spec = dispatch.Field(p.Name, typ)
	default:
		return dispatch.Param{}, fmt.Errorf("unknown parameter source %q for %q", p.In, p.Name)
	}

	if p.Optional {
		spec = spec.Optional()
	}

	return spec, nil
}

// Describe builds a manifest from the engine's registered routes. Handler
// names are not recoverable from function values and are left empty; the
// result is meant for inspection and documentation, not for re-Apply.
func Describe(e *dispatch.Engine) *Document {
	routes := e.Routes()
	doc := &Document{Routes: make([]Route, 0, len(routes))}

	for _, r := range routes {
		mr := Route{
			Method: r.Method(),
			Path:   r.Template(),
		}
		if s := r.Handler().SuccessStatus(); s != http.StatusOK {
			mr.Status = s
		}
		for _, p := range r.Handler().Params() {
			mr.Params = append(mr.Params, describeParam(p))
		}
		doc.Routes = append(doc.Routes, mr)
	}

	return doc
}

func describeParam(p dispatch.Param) Param {
	out := Param{
		Name:     p.Name,
		Optional: !p.Required,
	}

	switch p.Source {
	case dispatch.SourcePath:
		out.In = "path"
	case dispatch.SourceField:
		out.In = "field"
	}

	switch p.Type {
	case dispatch.TypeString:
		out.Type = "string"
	case dispatch.TypeInt:
		out.Type = "int"
	}

	return out
}
