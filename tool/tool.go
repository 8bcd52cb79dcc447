package tool

import (
	"context"
	"errors"

	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/wardenhq/warden/pkg/stdx"
)

// Handler executes one action. It receives the effective parameter document
// (after inspector modifications) as a parsed JSON result and returns the
// textual outcome surfaced in the execution record.
//
// Handlers must treat the context as their cancellation signal; the engine
// never force-cancels a handler once it started.
type Handler func(ctx context.Context, params gjson.Result) (string, error)

// Definition describes one invocable action: its name, a human-readable
// description, an optional JSON schema for its parameters, and the handler
// that carries it out. Handlers are resolved once at registration and looked
// up by name at dispatch; there is no runtime reflection on the hot path.
type Definition struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Handler     Handler
}

var paramReflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// Option configures a Definition during construction.
type Option = opts.Option[Definition]

// Description sets the human-readable description of the action.
var Description = opts.ForName[Definition, string]("Description")

// ParamsFor derives the parameter schema from the struct type T. Reflection
// happens here, at registration time, never during dispatch.
//
// Example usage:
//
//	type writeArgs struct {
//	    Path    string `json:"path"`
//	    Content string `json:"content"`
//	}
//
//	def := tool.Must("write_file", writeFile, tool.ParamsFor[writeArgs]())
func ParamsFor[T any]() Option {
	return opts.Type[Definition](func(o *Definition) error {
		var v T
		o.Parameters = paramReflector.Reflect(v)
		o.Parameters.Version = ""
		return nil
	})
}

// Prop is a named property used to build a parameter schema by hand.
type Prop struct {
	Name   string
	Schema *jsonschema.Schema
}

// StringProp builds a string-typed property with a description.
func StringProp(name, description string) Prop {
	return Prop{Name: name, Schema: &jsonschema.Schema{Type: "string", Description: description}}
}

// IntProp builds an integer-typed property with a description.
func IntProp(name, description string) Prop {
	return Prop{Name: name, Schema: &jsonschema.Schema{Type: "integer", Description: description}}
}

// Props builds an object parameter schema from the given properties, all of
// which are required, preserving declaration order.
func Props(props ...Prop) Option {
	return opts.Type[Definition](func(o *Definition) error {
		schema := &jsonschema.Schema{
			Type:       "object",
			Properties: orderedmap.New[string, *jsonschema.Schema](),
		}
		for _, p := range props {
			schema.Properties.Set(p.Name, p.Schema)
			schema.Required = append(schema.Required, p.Name)
		}
		o.Parameters = schema
		return nil
	})
}

// New creates a Definition for the named action with the given handler.
// The name and handler are mandatory; everything else is optional.
func New(name string, handler Handler, options ...Option) (Definition, error) {
	var err error
	if name == "" {
		err = errors.Join(err, errors.New("action name is required"))
	}
	if handler == nil {
		err = errors.Join(err, errors.New("handler is required"))
	}
	if err != nil {
		return Definition{}, err
	}

	def := Definition{Name: name, Handler: handler}
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Must is like New but panics on error. Intended for package-level action
// tables where a bad definition is a programming error.
func Must(name string, handler Handler, options ...Option) Definition {
	return stdx.Must1(New(name, handler, options...))
}
