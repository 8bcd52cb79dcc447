package tool

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/wardenhq/warden/internal/registry"
)

// Entry is a registered action: its definition plus the compiled validation
// schema derived from Definition.Parameters. Compilation happens once, at
// registration.
type Entry struct {
	Definition
	// Compiled is the validator for the parameter document, nil when the
	// definition declares no parameter schema.
	Compiled *jsonschema.Schema
}

// Catalog is the registry of invocable actions, keyed by action name.
// Lookups are safe for concurrent use.
type Catalog struct {
	entries registry.Registry[Entry]
}

// NewCatalog creates an empty action catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: registry.New[Entry]()}
}

// Register adds a definition to the catalog, compiling its parameter schema.
// Registering a name twice replaces the previous entry.
func (c *Catalog) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("cannot register action without a name")
	}
	if def.Handler == nil {
		return fmt.Errorf("cannot register action %q without a handler", def.Name)
	}

	entry := Entry{Definition: def}
	if def.Parameters != nil {
		raw, err := json.Marshal(def.Parameters)
		if err != nil {
			return fmt.Errorf("marshal parameter schema for %q: %w", def.Name, err)
		}
		compiled, err := jsonschema.CompileString(def.Name+".schema.json", string(raw))
		if err != nil {
			return fmt.Errorf("compile parameter schema for %q: %w", def.Name, err)
		}
		entry.Compiled = compiled
	}

	c.entries.Add(def.Name, entry)
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(defs ...Definition) {
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			panic(err)
		}
	}
}

// Get looks up an action by name.
func (c *Catalog) Get(name string) (Entry, bool) {
	return c.entries.Get(name)
}

// Schema returns the compiled parameter validator for the named action, or
// nil when the action is unknown or declares no schema.
func (c *Catalog) Schema(name string) *jsonschema.Schema {
	entry, ok := c.entries.Get(name)
	if !ok {
		return nil
	}
	return entry.Compiled
}

// Names returns the registered action names, in no particular order.
func (c *Catalog) Names() []string {
	return c.entries.Keys()
}
